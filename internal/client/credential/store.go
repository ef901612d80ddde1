// Package credential persists the bearer credential of the signed-in user
// in the local metadata store.
package credential

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lingokeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/lingokeeper/internal/common"
	"github.com/dmitrijs2005/lingokeeper/internal/dbx"
)

// Store is the durable home of the bearer token. The token survives process
// restarts and is removed only by Clear.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	cached  *string
	version uint64 // bumped by every Save and Clear

	afterRead func() // test hook, runs between the read and the caching
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Token returns the stored credential, or "" when none is present. A value
// read while a Save or Clear was in flight is returned but not cached.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.cached != nil {
		t := *s.cached
		s.mu.RUnlock()
		return t, nil
	}
	version := s.version
	s.mu.RUnlock()

	v, err := s.repo().Get(ctx, common.TokenKey)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if s.afterRead != nil {
		s.afterRead()
	}

	token := string(v)
	s.mu.Lock()
	if s.version == version {
		s.cached = &token
	}
	s.mu.Unlock()
	return token, nil
}

// Username returns the name saved alongside the token.
func (s *Store) Username(ctx context.Context) (string, error) {
	v, err := s.repo().Get(ctx, common.UsernameKey)
	if err != nil {
		return "", fmt.Errorf("read username: %w", err)
	}
	return string(v), nil
}

// Save writes token and username in one transaction.
func (s *Store) Save(ctx context.Context, token, username string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.UsernameKey, []byte(username))
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	s.mu.Lock()
	s.cached = &token
	s.version++
	s.mu.Unlock()
	return nil
}

// Clear removes the token and username. Other metadata keys are kept.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cached = nil
	s.version++
	s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.UsernameKey)
	})
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}

	empty := ""
	s.mu.Lock()
	s.cached = &empty
	s.version++
	s.mu.Unlock()
	return nil
}
