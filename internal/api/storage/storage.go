package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		db: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the value
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// mapError translates driver errors into domain kinds
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to %s: %w", op, domain.ErrNotFound)
	case postgresql.IsUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrDuplicate, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
