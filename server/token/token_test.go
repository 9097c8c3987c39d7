package token

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/dao/inmem"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func Test_Generate_Validate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	users := inmem.NewUsersRepository()

	user, err := users.Create(ctx, dao.User{Username: "ada", Password: "hash"})
	if !assert.NoError(err) {
		return
	}

	tok, err := Generate(testSecret, user)
	if !assert.NoError(err) {
		return
	}

	got, err := Validate(ctx, tok, testSecret, users)
	if assert.NoError(err) {
		assert.Equal(user.ID, got.ID)
	}

	_, err = Validate(ctx, tok, []byte("some other secret that is long enough"), users)
	assert.Error(err)

	// logging out changes the signing key
	user.LastLogoutTime = user.LastLogoutTime.Add(time.Hour)
	_, err = users.Update(ctx, user.ID, user)
	if !assert.NoError(err) {
		return
	}
	_, err = Validate(ctx, tok, testSecret, users)
	assert.Error(err)
}

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", expect: "abc.def.ghi"},
		{name: "scheme is case-insensitive", header: "bearer  abc", expect: "abc"},
		{name: "missing header", header: "", expectErr: true},
		{name: "basic auth", header: "Basic dXNlcjpwdw==", expectErr: true},
		{name: "no token", header: "Bearer", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			actual, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}
