// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	userstore "github.com/reelhub/reelhub/internal/app/store/users"
	"github.com/reelhub/reelhub/internal/app/system/auth"
	"github.com/reelhub/reelhub/internal/app/system/htmlsanitize"
	"github.com/reelhub/reelhub/internal/app/system/httpjson"
	"github.com/reelhub/reelhub/internal/app/system/inputval"
	"github.com/reelhub/reelhub/internal/app/system/normalize"
	"github.com/reelhub/reelhub/internal/app/system/timeouts"
	"github.com/reelhub/reelhub/internal/domain/apperr"
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, SessionMgr: sessionMgr, Log: logger}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup creates a password account and signs the new user in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	name := htmlsanitize.Strip(normalize.Name(req.Name))
	email := normalize.Email(req.Email)

	if name == "" || len(name) > inputval.MaxNameLen {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: name is required", apperr.ErrValidation))
		return
	}
	if !inputval.IsValidEmail(email) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid email address", apperr.ErrValidation))
		return
	}
	if len(req.Password) < inputval.MinPasswordLen {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: password must be at least %d characters",
			apperr.ErrValidation, inputval.MinPasswordLen))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		AuthMethod:   models.AuthMethodPassword,
		PasswordHash: string(hash),
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    created.ID.Hex(),
		Name:  created.Name,
		Email: created.Email,
	}); err != nil {
		h.Log.Error("save session failed after signup",
			zap.Error(err), zap.String("user_id", created.ID.Hex()))
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user signed up",
		zap.String("user_id", created.ID.Hex()),
		zap.String("email", strings.ToLower(created.Email)))

	httpjson.Respond(w, http.StatusCreated, created)
}
