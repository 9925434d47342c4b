package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"service-desk/internal/app"
	"service-desk/internal/core"

	"github.com/golang-jwt/jwt/v5"
)

type authClaimsKey struct{}

// AuthClaims holds the authenticated user's identity extracted from the JWT.
type AuthClaims struct {
	Email string
	Role  core.Role
}

// Actor converts claims into the application-layer actor.
func (c *AuthClaims) Actor() app.Actor {
	return app.Actor{Email: c.Email, Role: c.Role}
}

// authFromContext returns the auth claims stored in ctx, or nil.
func authFromContext(ctx context.Context) *AuthClaims {
	v, _ := ctx.Value(authClaimsKey{}).(*AuthClaims)
	return v
}

// jwtClaims is the JWT payload struct used for signing and parsing.
type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// parseToken validates the auth cookie and returns the claims, or an error.
func (h *Handler) parseToken(r *http.Request) (*AuthClaims, error) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return nil, fmt.Errorf("missing auth cookie")
	}
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	return &AuthClaims{Email: claims.Email, Role: core.Role(claims.Role)}, nil
}

// RequireAuth validates the auth_token cookie and injects AuthClaims into the
// request context. Returns 401 if the token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.parseToken(r)
		if err != nil {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), authClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route group to admin users. Must run after RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := authFromContext(r.Context())
		if claims == nil || claims.Role != core.RoleAdmin {
			writeError(w, r, "admin role required", "FORBIDDEN", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.svc.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	claims := &jwtClaims{
		Email: session.Email,
		Role:  string(session.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   3600,
	})
	writeJSON(w, session)
}

// logout handles POST /api/auth/logout — clears the auth cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// me handles GET /api/auth/me — returns the current user's profile.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	user, err := h.svc.GetUser(r.Context(), claims.Email)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, user)
}
