package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/api/auth"
	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/dto"
	"github.com/cuongbtq/skillbridge/internal/api/model"
	"github.com/cuongbtq/skillbridge/internal/api/storage"
	"github.com/cuongbtq/skillbridge/internal/api/upload"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 100
)

var errInvalidBody = domain.NewError(domain.ErrValidation, "Invalid request body")

// UserHandler handles registration, sessions and profiles
type UserHandler struct {
	base
	tokens    *auth.TokenService
	passwords *auth.PasswordHasher
	revoker   auth.Revoker
	cookie    CookieConfig
}

func NewUserHandler(deps *Dependencies) *UserHandler {
	revoker := deps.Revoker
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &UserHandler{
		base:      newBase(deps),
		tokens:    deps.Tokens,
		passwords: deps.Passwords,
		revoker:   revoker,
		cookie:    deps.Cookie,
	}
}

// Register handles POST /user/register
func (h *UserHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	exists, err := h.store.EmailExists(ctx, req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if exists {
		respondError(c, h.logger, domain.NewError(domain.ErrDuplicate, "User already exists with this email."))
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	now := h.now()
	user := model.User{
		ID:           uuid.NewString(),
		Fullname:     req.Fullname,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         req.Role,
		Skills:       pq.StringArray{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if fh := optionalFile(c, "file"); fh != nil {
		file, err := h.saveFile(ctx, fh, user.ID, upload.PurposeProfilePhoto)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		user.PhotoURL = file.URL
	}

	if err := h.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			err = domain.WithMessage(err, "User already exists with this email.")
		}
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("User registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)
	h.publish(ctx, activity.TypeUserRegistered, user.ID, user.ID, user.Fullname)

	respond(c, http.StatusCreated, gin.H{
		"message": "Account created successfully",
	})
}

// Login handles POST /user/login
func (h *UserHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	invalidCredentials := domain.NewError(domain.ErrUnauthorized, "Invalid credentials")

	user, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = invalidCredentials
		}
		respondError(c, h.logger, err)
		return
	}

	if err := h.passwords.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			err = invalidCredentials
		}
		respondError(c, h.logger, err)
		return
	}

	if user.Role != req.Role {
		respondError(c, h.logger, domain.NewError(domain.ErrUnauthorized, "Invalid role for this account"))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, token, int(h.tokens.TTL().Seconds()))

	h.logger.Info("User logged in", slog.String("user_id", user.ID))
	respond(c, http.StatusOK, gin.H{
		"message": "Welcome back, " + user.Fullname,
		"user":    dto.NewUserDTO(user),
	})
}

// Logout handles GET /user/logout. A valid presented token is revoked until it expires.
func (h *UserHandler) Logout(c *gin.Context) {
	if token := TokenFromRequest(c, h.cookie.Name); token != "" {
		if claims, err := h.tokens.Parse(token); err == nil {
			ttl := claims.Remaining(h.now())
			if err := h.revoker.Revoke(c.Request.Context(), claims.TokenID(), ttl); err != nil {
				h.logger.Warn("Failed to revoke token on logout",
					slog.String("user_id", claims.UserID()),
					slog.Any("error", err),
				)
			}
		}
	}

	h.setSessionCookie(c, "", -1)
	respond(c, http.StatusOK, gin.H{
		"message": "Logged out successfully.",
	})
}

// UpdateProfile handles POST /user/profile/update; only provided fields change
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	current := CurrentUser(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}

	user := *current
	if v := trimmed(req.Fullname); v != "" {
		user.Fullname = v
	}
	if v := trimmed(req.PhoneNumber); v != "" {
		user.PhoneNumber = v
	}
	if v := trimmed(req.Bio); v != "" {
		user.Bio = v
	}
	if trimmed(req.Skills) != "" {
		user.Skills = dto.SplitList(req.Skills)
	}

	if fh := optionalFile(c, "profilePhoto"); fh != nil {
		file, err := h.saveFile(ctx, fh, user.ID, upload.PurposeProfilePhoto)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		user.PhotoURL = file.URL
	}

	if fh := optionalFile(c, "resume"); fh != nil {
		file, err := h.saveFile(ctx, fh, user.ID, upload.PurposeResume)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		user.ResumeURL = file.URL
		user.ResumeName = file.OriginalName
	}

	user.UpdatedAt = h.now()
	if err := h.store.UpdateUserProfile(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.WithMessage(err, "User not found")
		}
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    dto.NewUserDTO(&user),
	})
}

// Me handles GET /user/me
func (h *UserHandler) Me(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"user": dto.NewUserDTO(CurrentUser(c)),
	})
}

// ListActivity handles GET /user/activity with cursor pagination
func (h *UserHandler) ListActivity(c *gin.Context) {
	var req dto.ListActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.logger, domain.NewError(domain.ErrValidation, "Invalid query parameters"))
		return
	}

	if req.Limit <= 0 {
		req.Limit = defaultActivityPageSize
	}
	if req.Limit > maxActivityPageSize {
		req.Limit = maxActivityPageSize
	}

	cursor, err := DecodeActivityCursor(req.Cursor)
	if err != nil {
		respondError(c, h.logger, domain.NewError(domain.ErrValidation, "Invalid cursor"))
		return
	}

	events, err := h.store.ListActivity(c.Request.Context(), storage.ActivityFilter{
		ActorID:  CurrentUser(c).ID,
		PageSize: req.Limit,
		Cursor:   cursor,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	hasMore := len(events) > req.Limit
	if hasMore {
		events = events[:req.Limit]
	}

	activities := make([]dto.ActivityDTO, len(events))
	for i := range events {
		activities[i] = dto.NewActivityDTO(&events[i])
	}

	body := gin.H{"activities": activities}
	if hasMore {
		last := events[len(events)-1]
		body["nextCursor"] = EncodeActivityCursor(&storage.ActivityCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	respond(c, http.StatusOK, body)
}

func (h *UserHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}
