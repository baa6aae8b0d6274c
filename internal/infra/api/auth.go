package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/infra/logging"
	"poster-commerce/internal/infra/metrics"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingToken = errors.New("missing token")

// AuthManager mints and verifies user JWTs (HS256, sub = user id).
type AuthManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthManager returns nil when secret is empty, which disables user auth.
func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type UserClaims struct {
	jwt.RegisteredClaims
}

func (a *AuthManager) Mint(userID string) (string, error) {
	if a == nil {
		return "", nil
	}
	now := a.now()
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*UserClaims, error) {
	tok, ok := bearer(r)
	if !ok {
		return nil, errMissingToken
	}
	return a.parse(tok)
}

func (a *AuthManager) parse(tok string) (*UserClaims, error) {
	claims := &UserClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearer(r *http.Request) (string, bool) {
	hdr := r.Header.Get("Authorization")
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// requireUser puts the token subject into the request context. It is a
// pass-through when user auth is disabled.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, envelope{"message": "Unauthorized"})
			return
		}
		ctx := logging.WithUserID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actingAs fails with ErrForbidden when the caller's token belongs to another user.
func (s *Server) actingAs(r *http.Request, userID string) error {
	if s.auth == nil {
		return nil
	}
	if logging.UserID(r.Context()) != userID {
		return domain.ErrForbidden
	}
	return nil
}

// requireAdmin checks the static admin API key. It is a pass-through when no
// key is configured.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		tok, ok := bearer(r)
		if !ok {
			metrics.IncAdminRequest("unauthorized")
			writeJSON(w, http.StatusUnauthorized, envelope{"message": "Unauthorized"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(tok), []byte(s.adminKey)) != 1 {
			metrics.IncAdminRequest("forbidden")
			writeJSON(w, http.StatusForbidden, envelope{"message": "Forbidden"})
			return
		}
		metrics.IncAdminRequest("authorized")
		next.ServeHTTP(w, r)
	})
}
