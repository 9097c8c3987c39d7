// Package server is an HTTP REST server that compiles regexes and regular
// grammars into automata, stores them per user, and runs input strings
// against them.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/fsmc/server/api"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/fsms"
	"github.com/go-chi/chi/v5"
)

// server:
//  POST   /login                 - accepts user and password and returns a jwt.
//  DELETE /login/{id}            - ends user authentication session and invalidates the jwt.
//  POST   /tokens                - refreshes the token without requiring credentials (requires auth)
//  POST   /automata              - compile a regex or grammar into a new automaton (auth required)
//  GET    /automata              - get all automata of the logged-in user (auth required)
//  GET    /automata/{id}         - get the NFA and DFA of an automaton (auth required)
//  DELETE /automata/{id}         - delete an automaton (auth required)
//  GET    /automata/{id}/table   - get the transition table or DOT of an automaton (auth required)
//  POST   /automata/{id}/match   - run input strings against an automaton (auth required)
//  POST   /users                 - create a new user account (auth required)
//  GET    /users                 - get all users (auth required)
//  GET    /users/{id}            - get info on a user (auth required)
//  PUT    /users/{id}            - create an existing user
//  PATCH  /users/{id}            - Update a user
//  DELETE /users/{id}            - delete a user (auth required)
//  GET    /info                  - get version info on the server and compiler.

// FSMServer is an HTTP REST server that provides compiled automata and
// associated resources. The zero-value of an FSMServer should not be used
// directly; call New() to get one ready for use.
type FSMServer struct {
	router chi.Router
	api    api.API
	db     dao.Store
}

// New creates a new FSMServer from the given config. Unset values in cfg are
// set to their defaults before it is validated.
func New(cfg Config) (FSMServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return FSMServer{}, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return FSMServer{}, fmt.Errorf("connect DB: %w", err)
	}

	srv := FSMServer{
		db: db,
		api: api.API{
			Backend:     fsms.Service{DB: db, HashCost: cfg.HashCost},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	srv.router = newRouter(srv.api)

	return srv, nil
}

// Handler returns the root handler of the server, for serving it with
// something other than ServeForever.
func (srv FSMServer) Handler() http.Handler {
	return srv.router
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (srv FSMServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, srv.router))
}

// CreateUser creates a new user directly in the server's persistence layer.
// It behaves the same as the POST /users endpoint but does not require a
// logged-in admin; it is used for seeding the initial admin account.
func (srv FSMServer) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	return srv.api.Backend.CreateUser(ctx, username, password, email, role)
}

// Close releases the server's connection to its persistence layer.
func (srv FSMServer) Close() error {
	return srv.db.Close()
}
