// Package middle contains middleware for use with the FSMC server.
package middle

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/result"
	"github.com/dekarrin/fsmc/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool that tells whether the request had a valid
	// token.
	AuthLoggedIn AuthKey = iota

	// AuthUser holds the dao.User the request is made as.
	AuthUser
)

// AuthHandler is middleware that checks the bearer token of a request and
// looks up the user it was issued to before passing the request on to the next
// handler with AuthLoggedIn and AuthUser set in its context.
//
// When required is set, a request without a valid token gets an HTTP-401
// and never reaches the next handler. Otherwise it is passed on as
// defaultUser with AuthLoggedIn set to false.
type AuthHandler struct {
	db            dao.UserRepository
	secret        []byte
	required      bool
	defaultUser   dao.User
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, err := ah.authenticate(req)
	loggedIn := err == nil

	if !loggedIn {
		if ah.required {
			log.Printf("WARN  %s %s: rejected: %s", req.Method, req.URL.Path, err.Error())
			time.Sleep(ah.unauthedDelay)
			result.Unauthorized("", err.Error()).WriteResponse(w)
			return
		}
		user = ah.defaultUser
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// authenticate gives the user the token in req was issued to. A missing token
// is an error the same as an invalid one.
func (ah *AuthHandler) authenticate(req *http.Request) (dao.User, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.User{}, err
	}
	return token.Validate(req.Context(), tok, ah.secret, ah.db)
}

// RequireAuth returns Middleware that rejects any request without a valid
// token with an HTTP-401.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return authMiddleware(db, secret, unauthDelay, defaultUser, true)
}

// OptionalAuth returns Middleware that lets through requests without a valid
// token, with defaultUser as their user and AuthLoggedIn set to false.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return authMiddleware(db, secret, unauthDelay, defaultUser, false)
}

func authMiddleware(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			defaultUser:   defaultUser,
			required:      required,
			next:          next,
		}
	}
}
