package handler

import (
	"mime/multipart"
	"strings"

	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const currentUserKey = "currentUser"

// SetCurrentUser stores the authenticated user on the request context
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated user, or nil outside authenticated routes
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// TokenFromRequest reads the session cookie, falling back to a bearer token
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// optionalFile returns the named multipart file, or nil when the request has none
func optionalFile(c *gin.Context, field string) *multipart.FileHeader {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

// validID accepts only the canonical 36-character uuid form Postgres takes as a uuid literal
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
