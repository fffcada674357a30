package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	err := NewError(ErrValidation, "Something is missing.")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Something is missing.: validation failed", err.Error())

	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Something is missing.", msg)
}

func TestWithMessage(t *testing.T) {
	storageErr := fmt.Errorf("company 42: %w", ErrNotFound)
	err := WithMessage(storageErr, "Company not found.")

	assert.ErrorIs(t, err, ErrNotFound)
	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Company not found.", msg)

	assert.Nil(t, WithMessage(nil, "unused"))
}

func TestMessage_Outermost(t *testing.T) {
	inner := NewError(ErrDuplicate, "inner")
	outer := WithMessage(fmt.Errorf("wrapped: %w", inner), "outer")

	msg, ok := Message(outer)
	assert.True(t, ok)
	assert.Equal(t, "outer", msg)

	_, ok = Message(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStudent))
	assert.True(t, ValidRole(RoleRecruiter))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("Student"))
}
