package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dekarrin/fsmc/server/api"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) FSMServer {
	srv, err := New(Config{HashCost: bcrypt.MinCost, UnauthDelayMillis: -1})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	ctx := context.Background()
	if _, err := srv.CreateUser(ctx, "admin", "password", "", dao.Admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := srv.CreateUser(ctx, "ada", "lovelace", "", dao.Normal); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return srv
}

func doRequest(srv FSMServer, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		json.NewEncoder(&reqBody).Encode(body)
	}

	req := httptest.NewRequest(method, api.PathPrefix+path, &reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, srv FSMServer, username, password string) string {
	w := doRequest(srv, "POST", "/login", "", api.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusCreated {
		t.Fatalf("login as %s: got HTTP-%d: %s", username, w.Code, w.Body.String())
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login response: %v", err)
	}
	return resp.Token
}

func Test_Login(t *testing.T) {
	testCases := []struct {
		name         string
		username     string
		password     string
		expectStatus int
	}{
		{name: "good credentials", username: "ada", password: "lovelace", expectStatus: http.StatusCreated},
		{name: "bad password", username: "ada", password: "babbage", expectStatus: http.StatusUnauthorized},
		{name: "no user", username: "grace", password: "hopper", expectStatus: http.StatusUnauthorized},
		{name: "empty password", username: "ada", password: "", expectStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := doRequest(srv, "POST", "/login", "", api.LoginRequest{Username: tc.username, Password: tc.password})

			assert.Equal(t, tc.expectStatus, w.Code)
		})
	}
}

func Test_Info(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)

	w := doRequest(srv, "GET", "/info", "", nil)

	assert.Equal(http.StatusOK, w.Code)
	var info api.InfoModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &info))
	assert.NotEmpty(info.Version.FSMC)
	assert.NotEmpty(info.Version.Server)

	w = doRequest(srv, "GET", "/info/", "", nil)
	assert.Equal(http.StatusPermanentRedirect, w.Code)
}

func Test_Automata(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	tok := login(t, srv, "ada", "lovelace")

	// create
	w := doRequest(srv, "POST", "/automata", tok, api.AutomatonRequest{Name: "abb", Kind: "regex", Source: "(a|b)*abb"})
	if !assert.Equal(http.StatusCreated, w.Code, w.Body.String()) {
		return
	}
	var created api.AutomatonModel
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &created)) {
		return
	}
	assert.Equal("abb", created.Name)
	assert.Equal([]string{"a", "b"}, created.DFA.Alphabet)
	assert.NotEmpty(created.DFA.Accepting)
	automatonPath := "/automata/" + created.ID

	// list
	w = doRequest(srv, "GET", "/automata", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
	var all []api.AutomatonModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(all, 1)

	// match
	w = doRequest(srv, "POST", automatonPath+"/match", tok, api.MatchRequest{Inputs: []string{"babb", "ab"}})
	if assert.Equal(http.StatusOK, w.Code, w.Body.String()) {
		var matched api.MatchResponse
		assert.NoError(json.Unmarshal(w.Body.Bytes(), &matched))
		if assert.Len(matched.Results, 2) {
			assert.True(matched.Results[0].Accepted)
			assert.Len(matched.Results[0].Path, 5)
			assert.False(matched.Results[1].Accepted)
		}
	}

	// table
	w = doRequest(srv, "GET", automatonPath+"/table", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.True(strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(w.Body.String(), "q0")

	w = doRequest(srv, "GET", automatonPath+"/table?format=dot", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "digraph")

	w = doRequest(srv, "GET", automatonPath+"/table?format=mealy", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Contains(w.Body.String(), "/F")

	w = doRequest(srv, "GET", automatonPath+"/table?format=mealy&nfa=true", tok, nil)
	assert.Equal(http.StatusBadRequest, w.Code)

	w = doRequest(srv, "GET", automatonPath+"/table?format=xml", tok, nil)
	assert.Equal(http.StatusBadRequest, w.Code)

	// delete
	w = doRequest(srv, "DELETE", automatonPath, tok, nil)
	assert.Equal(http.StatusNoContent, w.Code)
	w = doRequest(srv, "GET", automatonPath, tok, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Automata_Errors(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	adaTok := login(t, srv, "ada", "lovelace")
	adminTok := login(t, srv, "admin", "password")

	w := doRequest(srv, "POST", "/automata", adaTok, api.AutomatonRequest{Name: "bad", Source: "(ab"})
	assert.Equal(http.StatusUnprocessableEntity, w.Code)

	w = doRequest(srv, "POST", "/automata", adaTok, api.AutomatonRequest{Name: "bad", Kind: "cfg", Source: "a"})
	assert.Equal(http.StatusBadRequest, w.Code)

	w = doRequest(srv, "GET", "/automata", "", nil)
	assert.Equal(http.StatusUnauthorized, w.Code)

	w = doRequest(srv, "GET", "/automata", "not-a-token", nil)
	assert.Equal(http.StatusUnauthorized, w.Code)

	// the admin's automaton is off limits to ada
	w = doRequest(srv, "POST", "/automata", adminTok, api.AutomatonRequest{Name: "mine", Source: "a+"})
	if !assert.Equal(http.StatusCreated, w.Code) {
		return
	}
	var created api.AutomatonModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(srv, "GET", "/automata/"+created.ID, adaTok, nil)
	assert.Equal(http.StatusForbidden, w.Code)

	w = doRequest(srv, "DELETE", "/automata/"+created.ID, adaTok, nil)
	assert.Equal(http.StatusForbidden, w.Code)

	w = doRequest(srv, "PUT", "/automata/"+created.ID, adminTok, nil)
	assert.Equal(http.StatusMethodNotAllowed, w.Code)
}

func Test_Logout_InvalidatesToken(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)

	w := doRequest(srv, "POST", "/login", "", api.LoginRequest{Username: "ada", Password: "lovelace"})
	var resp api.LoginResponse
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp)) {
		return
	}

	w = doRequest(srv, "DELETE", "/login/"+resp.UserID, resp.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)

	w = doRequest(srv, "GET", "/automata", resp.Token, nil)
	assert.Equal(http.StatusUnauthorized, w.Code)
}
