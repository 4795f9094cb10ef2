// Package auth issues and verifies the signed tokens that tie an HTTP
// caller back to the Jellyfin credentials resolved at login. The token's
// jti keys the in-memory session cache; verifying a token therefore proves
// both the signature and that the session still exists.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jellywrapped/internal/jellyfin"
	"jellywrapped/internal/models"
	"jellywrapped/internal/session"
)

// TokenTTL matches the session cache TTL so a verifiable token always has
// a live session behind it (barring a process restart).
const TokenTTL = session.TTL

type Service struct {
	client   *jellyfin.Client
	sessions *session.Cache
	secret   []byte
}

func NewService(client *jellyfin.Client, sessions *session.Cache, secret []byte) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret is required")
	}
	return &Service{client: client, sessions: sessions, secret: secret}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	userID, upstreamToken, err := s.client.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeJSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("auth: login for %s: %v", req.Username, err)
		writeJSONError(w, "media server unavailable", http.StatusBadGateway)
		return
	}

	jti := uuid.NewString()
	s.sessions.Create(jti, models.Session{
		UserID:   userID,
		Token:    upstreamToken,
		Username: req.Username,
	})

	signed, err := s.signToken(jti, req.Username)
	if err != nil {
		log.Printf("auth: signing token: %v", err)
		writeJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: signed, Username: req.Username})
}

// HandleLogout deletes the caller's session. Idempotent: a missing or
// already-expired session still yields 200.
func (s *Service) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if jti, err := s.verify(bearerToken(r)); err == nil {
		s.sessions.Delete(jti)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authenticate resolves the request's bearer token to a live session.
func (s *Service) Authenticate(r *http.Request) (models.Session, bool) {
	jti, err := s.verify(bearerToken(r))
	if err != nil {
		return models.Session{}, false
	}
	return s.sessions.Get(jti)
}

func (s *Service) signToken(jti, username string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        jti,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	return token.SignedString(s.secret)
}

func (s *Service) verify(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("missing token")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("token missing jti")
	}
	return claims.ID, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("auth: encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
