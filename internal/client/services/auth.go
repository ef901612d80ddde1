// Package services contains the application services of the client: auth,
// dialogue sessions, quizzes and learning records. Each service owns its
// state exclusively and talks to the remote service through client.Client.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lingokeeper/internal/client/client"
	"github.com/dmitrijs2005/lingokeeper/internal/client/models"
	"github.com/dmitrijs2005/lingokeeper/internal/common"
	"github.com/dmitrijs2005/lingokeeper/internal/logging"
)

// CredentialStore is the durable home of the bearer credential.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Username(ctx context.Context) (string, error)
	Save(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate, persist the returned credential and keep the user.
//     A failed login leaves no credential behind.
//   - Register: create an account; does not sign in.
//   - Logout: tell the server, then always drop the local credential.
//   - CurrentUser: reload the signed-in user from the server.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	IsAuthenticated(ctx context.Context) bool
	Username(ctx context.Context) string
	User() *models.User
	ClearUser()
}

type authService struct {
	client client.Client
	creds  CredentialStore
	log    logging.Logger

	mu   sync.Mutex
	user *models.User
}

func NewAuthService(c client.Client, creds CredentialStore, log logging.Logger) AuthService {
	return &authService{client: c, creds: creds, log: log.With("service", "auth")}
}

// Login wipes password once it has been sent.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	res, err := a.client.Login(ctx, models.LoginRequest{Username: username, Password: string(password)})
	if err != nil {
		a.clear(ctx)
		return nil, err
	}

	if err := a.creds.Save(ctx, res.Token, res.User.Username); err != nil {
		a.clear(ctx)
		return nil, fmt.Errorf("credential saving error: %w", err)
	}

	user := res.User
	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()

	a.log.Info(ctx, "signed in", "username", user.Username)
	return &user, nil
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	user, err := a.client.Register(ctx, models.RegisterRequest{Username: username, Password: string(password), Email: email})
	if err != nil {
		return nil, err
	}
	a.log.Info(ctx, "account registered", "username", username)
	return user, nil
}

// Logout returns an error only when the local credential could not be
// removed; a failed remote call is logged.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout call failed", "error", err)
	}
	return a.clear(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.user = user
	a.mu.Unlock()
	c := *user
	return &c, nil
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	token, err := a.creds.Token(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to read credential", "error", err)
		return false
	}
	return token != ""
}

// Username is the name saved with the credential, "" when signed out.
func (a *authService) Username(ctx context.Context) string {
	if u := a.User(); u != nil {
		return u.Username
	}
	name, err := a.creds.Username(ctx)
	if err != nil {
		return ""
	}
	return name
}

func (a *authService) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	c := *a.user
	return &c
}

func (a *authService) ClearUser() {
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()
}

func (a *authService) clear(ctx context.Context) error {
	a.ClearUser()
	if err := a.creds.Clear(ctx); err != nil {
		a.log.Error(ctx, "failed to clear credential", "error", err)
		return err
	}
	return nil
}
