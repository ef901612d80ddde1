package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/timex"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type userKey struct{}

func userFrom(ctx context.Context) *account {
	a, _ := ctx.Value(userKey{}).(*account)
	return a
}

// IssueToken signs a token for username that expires after ttl.
func (s *Server) IssueToken(username string, ttl time.Duration) string {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// AddUser creates an account directly, bypassing registration.
func (s *Server) AddUser(username, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, password, username+"@example.com")
}

func (s *Server) addUserLocked(username, password, email string) models.User {
	s.nextID++
	created := timex.NewTime(s.now())
	a := &account{
		user:     models.User{ID: s.nextID, Username: username, Email: email, CreatedAt: &created},
		password: password,
	}
	s.accounts[username] = a
	return a.user
}

func (s *Server) parseToken(raw string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		username, err := s.parseToken(raw)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			writeError(w, http.StatusUnauthorized, msg)
			return
		}

		s.mu.Lock()
		a := s.accounts[username]
		revoked := s.revoked[raw]
		s.mu.Unlock()
		if a == nil || revoked {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, a)))
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(r, &req) || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[req.Username]; ok {
		writeBusiness(w, 1001, "Username already exists")
		return
	}
	writeOK(w, s.addUserLocked(req.Username, req.Password, req.Email))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	a := s.accounts[req.Username]
	s.mu.Unlock()
	if a == nil || a.password != req.Password {
		writeBusiness(w, 1002, "Invalid username or password")
		return
	}

	writeOK(w, models.LoginResult{Token: s.IssueToken(req.Username, s.tokenTTL), User: a.user})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.revoked[bearer(r)] = true
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeOK(w, userFrom(r.Context()).user)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}
