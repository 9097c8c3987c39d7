package fsms

import (
	"context"
	"testing"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/dao/inmem"
	"github.com/dekarrin/fsmc/server/serr"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore(), HashCost: bcrypt.MinCost}
}

func Test_Service_Login(t *testing.T) {
	testCases := []struct {
		name      string
		username  string
		password  string
		expectErr error
	}{
		{
			name:     "correct credentials",
			username: "ada",
			password: "hunter2",
		},
		{
			name:      "wrong password",
			username:  "ada",
			password:  "hunter3",
			expectErr: serr.ErrBadCredentials,
		},
		{
			name:      "no such user",
			username:  "grace",
			password:  "hunter2",
			expectErr: serr.ErrBadCredentials,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := newTestService()

			_, err := svc.CreateUser(ctx, "ada", "hunter2", "", dao.Normal)
			if !assert.NoError(err) {
				return
			}

			user, err := svc.Login(ctx, tc.username, tc.password)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal("ada", user.Username)
			assert.False(user.LastLoginTime.IsZero())
		})
	}
}

func Test_Service_CreateUser(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.CreateUser(ctx, "ada", "pw", "ada@example.com", dao.Normal)
	assert.NoError(err)

	_, err = svc.CreateUser(ctx, "ada", "pw", "", dao.Normal)
	assert.ErrorIs(err, serr.ErrAlreadyExists)

	_, err = svc.CreateUser(ctx, "grace", "pw", "not an email", dao.Normal)
	assert.ErrorIs(err, serr.ErrBadArgument)

	_, err = svc.CreateUser(ctx, "", "pw", "", dao.Normal)
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_CreateAutomaton(t *testing.T) {
	testCases := []struct {
		name        string
		kind        string
		source      string
		expectErrIs []error
		accept      []string
		reject      []string
	}{
		{
			name:   "regex",
			kind:   SourceRegex,
			source: "(a|b)*abb",
			accept: []string{"abb", "aabb", "babb"},
			reject: []string{"", "ab", "abba", "abc"},
		},
		{
			name:   "grammar",
			kind:   SourceGrammar,
			source: "<S> -> a <S> | b <A>\n<A> -> b",
			accept: []string{"bb", "abb", "aaabb"},
			reject: []string{"", "b", "ba"},
		},
		{
			name:   "mealy",
			kind:   SourceMealy,
			source: ";s0;s1\na;s1/F;s0/\nb;s0/;s1/F\n",
			accept: []string{"a", "ab", "bab"},
			reject: []string{"", "b", "aa"},
		},
		{
			name:        "bad mealy table",
			kind:        SourceMealy,
			source:      ";s0;s1\na;s1;\n",
			expectErrIs: []error{serr.ErrCompile, serr.ErrBadArgument},
		},
		{
			name:        "bad regex",
			kind:        SourceRegex,
			source:      "(ab",
			expectErrIs: []error{serr.ErrCompile, serr.ErrBadArgument},
		},
		{
			name:        "bad kind",
			kind:        "cfg",
			source:      "a",
			expectErrIs: []error{serr.ErrBadArgument},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := newTestService()
			owner, err := svc.CreateUser(ctx, "ada", "pw", "", dao.Normal)
			if !assert.NoError(err) {
				return
			}

			m, err := svc.CreateAutomaton(ctx, owner.ID, "m", tc.kind, tc.source)
			if tc.expectErrIs != nil {
				for _, e := range tc.expectErrIs {
					assert.ErrorIs(err, e)
				}
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.True(m.DFA.IsDeterministic())

			// round trip through the store must give the same machine
			stored, err := svc.GetAutomaton(ctx, m.ID.String())
			if !assert.NoError(err) {
				return
			}
			assert.Equal(m.DFA.String(), stored.DFA.String())
			assert.Equal(m.NFA.String(), stored.NFA.String())

			for _, r := range stored.Match(tc.accept) {
				assert.True(r.Accepted, "should accept %q", r.Input)
				assert.Len(r.Path, len(r.Input)+1)
			}
			for _, r := range stored.Match(tc.reject) {
				assert.False(r.Accepted, "should reject %q", r.Input)
			}
		})
	}
}

func Test_Service_Automata(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()
	owner, err := svc.CreateUser(ctx, "ada", "pw", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	all, err := svc.GetAllAutomata(ctx, owner.ID)
	assert.NoError(err)
	assert.NotNil(all)
	assert.Empty(all)

	m, err := svc.CreateAutomaton(ctx, owner.ID, "m", SourceRegex, "a*")
	if !assert.NoError(err) {
		return
	}

	all, err = svc.GetAllAutomata(ctx, owner.ID)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = svc.GetAutomaton(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)

	// deleting the owner takes their automata with them
	_, err = svc.DeleteUser(ctx, owner.ID.String())
	assert.NoError(err)
	_, err = svc.GetAutomaton(ctx, m.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}
