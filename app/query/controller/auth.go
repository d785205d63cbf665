package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// validateAdminToken checks the Authorization header against the static
// admin token, when one is configured.
func (c *Controller) validateAdminToken(r *http.Request) bool {
	if c.AdminToken == "" {
		return false
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ") == c.AdminToken
	}
	return false
}

// validateSessionToken checks the Authorization header for a valid signed
// session JWT with the admin role.
func (c *Controller) validateSessionToken(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	raw := strings.TrimPrefix(authHeader, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) { return []byte(c.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return false
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// RequireAdmin middleware
func (c *Controller) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.validateAdminToken(r) || c.validateSessionToken(r) {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "unauthorized")
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies admin credentials and issues a session JWT.
func (c *Controller) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username != c.AdminUser ||
		bcrypt.CompareHashAndPassword(c.AdminHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ttl := 8 * time.Hour
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := token.SignedString([]byte(c.JWTSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unable to sign session token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     ss,
		"expiresIn": int(ttl.Seconds()),
	})
}
