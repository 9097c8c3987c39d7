package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/middle"
	"github.com/dekarrin/fsmc/server/result"
	"github.com/dekarrin/fsmc/server/serr"
	"github.com/dekarrin/fsmc/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that logs in a user with a username and
// password and gives back a token for them.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var loginData LoginRequest
	if err := parseJSON(req, &loginData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "user '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return api.issueToken(user, "logged in")
}

// HTTPCreateToken returns a HandlerFunc that gives a fresh token to the user
// the client is logged in as, without needing their password again.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)
	return api.issueToken(user, "refreshed token")
}

// HTTPDeleteLogin returns a HandlerFunc that logs out a user, which makes
// every token issued to them so far invalid. Only admin users can log out
// users other than themselves.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the user to log out and the logged-in user of the client making the
// request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.forbidOthers(req, user, id, "log out"); !ok {
		return r
	}

	loggedOut, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out user: " + err.Error())
	}

	return result.NoContent("user '%s' logged out %s", user.Username, describeTarget(user, loggedOut))
}

func (api API) issueToken(user dao.User, action string) result.Result {
	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:   tok,
		UserID:  user.ID.String(),
		Expires: time.Now().Add(token.Lifetime).Format(time.RFC3339),
	}
	return result.Created(resp, "user '%s' %s", user.Username, action)
}
