package sqlite

import (
	"context"
	"net/mail"
	"testing"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_Users(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)
	email, _ := mail.ParseAddress("ada@example.com")

	created, err := st.Users().Create(ctx, dao.User{Username: "ada", Password: "x", Email: email, Role: dao.Admin})
	if !assert.NoError(err) {
		return
	}
	assert.Equal(dao.Admin, created.Role)
	if assert.NotNil(created.Email) {
		assert.Equal("ada@example.com", created.Email.Address)
	}

	_, err = st.Users().Create(ctx, dao.User{Username: "ada", Password: "y"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	created.Username = "grace"
	created.Email = nil
	updated, err := st.Users().Update(ctx, created.ID, created)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("grace", updated.Username)
	assert.Nil(updated.Email)

	_, err = st.Users().GetByUsername(ctx, "ada")
	assert.ErrorIs(err, dao.ErrNotFound)

	all, err := st.Users().GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = st.Users().Delete(ctx, created.ID)
	assert.NoError(err)
	_, err = st.Users().GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_Automata(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)

	owner, err := st.Users().Create(ctx, dao.User{Username: "ada", Password: "x"})
	if !assert.NoError(err) {
		return
	}

	_, err = st.Automata().GetAllByUser(ctx, owner.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	created, err := st.Automata().Create(ctx, dao.Automaton{
		UserID:     owner.ID,
		Name:       "abb",
		SourceKind: "regex",
		Source:     "(a|b)*abb",
		NFA:        []byte{0x00, 0xff, 0x10},
		DFA:        []byte{0x01},
	})
	if !assert.NoError(err) {
		return
	}

	got, err := st.Automata().GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.Equal("(a|b)*abb", got.Source)
	assert.Equal([]byte{0x00, 0xff, 0x10}, got.NFA)
	assert.Equal([]byte{0x01}, got.DFA)

	// unknown owner is refused by the foreign key
	_, err = st.Automata().Create(ctx, dao.Automaton{UserID: uuid.New(), Name: "orphan"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	// and removing the owner removes their automata
	_, err = st.Users().Delete(ctx, owner.ID)
	assert.NoError(err)
	_, err = st.Automata().GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}
