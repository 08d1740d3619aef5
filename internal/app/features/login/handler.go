// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	userstore "github.com/reelhub/reelhub/internal/app/store/users"
	"github.com/reelhub/reelhub/internal/app/system/auth"
	"github.com/reelhub/reelhub/internal/app/system/httpjson"
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

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errBadCredentials deliberately does not say whether the email or the
// password was wrong.
var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrNotAuthorized)

// HandleLogin verifies a password login and establishes the session.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: email and password are required", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.Log.Info("login failed: unknown email", zap.String("email", email))
			httpjson.Error(w, h.Log, errBadCredentials)
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if u.AuthMethod != models.AuthMethodPassword || u.PasswordHash == "" {
		h.Log.Info("login failed: account has no password",
			zap.String("user_id", u.ID.Hex()),
			zap.String("auth_method", u.AuthMethod))
		httpjson.Error(w, h.Log, errBadCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.Log.Info("login failed: wrong password", zap.String("user_id", u.ID.Hex()))
		httpjson.Error(w, h.Log, errBadCredentials)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, u)
}
