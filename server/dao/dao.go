// Package dao provides data access objects for use in the FSMC server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrConstraintViolation is returned when a write would give two entities
	// the same ID or username, or would leave an automaton with no owner.
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")

	// ErrNotFound is returned when no entity matches a lookup.
	ErrNotFound = errors.New("the requested resource was not found")
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Automata() AutomatonRepository
	Close() error
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

type AutomatonRepository interface {

	// Create creates a new Automaton. All attributes except for
	// auto-generated fields are taken from the provided Automaton.
	Create(ctx context.Context, a Automaton) (Automaton, error)
	GetByID(ctx context.Context, id uuid.UUID) (Automaton, error)

	// GetAllByUser returns every Automaton owned by the user with the given
	// ID. If there are none, it returns ErrNotFound.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Automaton, error)
	GetAll(ctx context.Context) ([]Automaton, error)
	Delete(ctx context.Context, id uuid.UUID) (Automaton, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Automaton is a compiled machine owned by a user. The machines themselves
// are kept in their binary encoding.
type Automaton struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string

	// SourceKind is "regex" or "grammar".
	SourceKind string

	// Source is the regular expression or grammar text.
	Source string

	NFA     []byte
	DFA     []byte
	Created time.Time
}
