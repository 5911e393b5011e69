package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"backend/internal/auth"
	"backend/internal/domain"
)

const sessionCookie = "session"

type contextKey string

const userContextKey contextKey = "user"

// CurrentUser returns the authenticated user placed in the context by
// RequireAuth, if any.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

type registerRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	CustomerID *int64 `json:"customer_id"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		req.Role = r.PostFormValue("role")
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Role, req.CustomerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, session, err := h.svc.Login(r.Context(), req.Username, req.Password, h.sessionTTL)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := auth.SignToken(h.jwtSecret, session.ID, user.ID, user.Role, session.ExpiresAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, err := h.requestClaims(r); err == nil {
		if err := h.svc.Logout(r.Context(), claims.ID); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// requestClaims pulls the session token from the cookie or a bearer header
// and validates it.
func (h *Handler) requestClaims(r *http.Request) (*auth.SessionClaims, error) {
	tokenString := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if tokenString == "" {
		return nil, http.ErrNoCookie
	}
	return auth.ParseToken(h.jwtSecret, tokenString)
}

// RequireAuth resolves the session token into a user and stores it in the
// request context. The token's jti must still exist as a session row, so a
// logged-out token is rejected even before its expiry.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.requestClaims(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		user, err := h.svc.SessionUser(r.Context(), claims.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
