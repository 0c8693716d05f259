// Package service implements the user and flashcard business logic on
// top of an injected row store, keeping it storage-agnostic.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/table"
)

// Store defines the persistence operations the services require from
// one table: whole-file read, trailing append, and whole-file rewrite.
type Store interface {
	// ReadAll returns every row in file order.
	ReadAll(ctx context.Context) ([]table.Row, error)
	// Append adds a single trailing row.
	Append(ctx context.Context, row table.Row) error
	// Rewrite replaces the entire table contents with rows, in order.
	Rewrite(ctx context.Context, rows []table.Row) error
}

// UsersHeader is the persisted column layout of the users table.
var UsersHeader = []string{"name", "email", "password", "created_at"}

// CardsHeader is the persisted column layout of the flashcards table.
var CardsHeader = []string{
	"id", "user_email", "name", "question", "answer",
	"image_question", "image_answer", "collection", "created_at",
}

// CardMarkers are the header fields whose presence means the flashcards
// file is already on the current schema.
var CardMarkers = []string{"id", "collection", "name", "image_question"}

// timeLayout is the stored timestamp format. Wall clock, local time,
// second resolution, matching existing data files.
const timeLayout = "2006-01-02 15:04:05"

// now is swapped out in tests.
var now = time.Now

// UserService implements registration and credential verification.
type UserService struct {
	store Store
}

// NewUserService constructs a UserService over the given users table.
func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

// Register validates the registration fields and appends a new user
// row. Checks run in order and stop at the first violation: all fields
// present, passwords match, password length, email not yet registered
// (case-insensitive).
func (s *UserService) Register(ctx context.Context, name, email, password, confirm string) error {
	if name == "" || email == "" || password == "" || confirm == "" {
		return ErrFieldsRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	taken, err := s.emailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	return s.store.Append(ctx, table.Row{
		"name":       name,
		"email":      email,
		"password":   password,
		"created_at": now().Format(timeLayout),
	})
}

// Authenticate scans for a case-insensitive email match with an
// exact-case password match. On success it returns the user without
// the password; otherwise ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("read users: %w", err)
	}
	for _, row := range rows {
		if strings.EqualFold(row.Get("email"), email) && row.Get("password") == password {
			return models.User{
				Name:      row.Get("name"),
				Email:     row.Get("email"),
				CreatedAt: row.Get("created_at"),
			}, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}

func (s *UserService) emailExists(ctx context.Context, email string) (bool, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("read users: %w", err)
	}
	for _, row := range rows {
		if strings.EqualFold(row.Get("email"), email) {
			return true, nil
		}
	}
	return false, nil
}
