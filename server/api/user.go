package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/middle"
	"github.com/dekarrin/fsmc/server/result"
	"github.com/dekarrin/fsmc/server/serr"
	"github.com/google/uuid"
)

// HTTPGetAllUsers returns a HandlerFunc that retrieves all existing users. Only
// an admin user can call this endpoint.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get all users: forbidden", user.Username, user.Role)
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i] = userModel(users[i])
	}

	return result.OK(resp, "user '%s' got all users", user.Username)
}

// HTTPCreateUser returns a HandlerFunc that creates a new user entity. Only an
// admin user can directly create new users.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", user.Username, user.Role)
	}

	createUser, role, errResult, ok := parseNewUser(req)
	if !ok {
		return errResult
	}

	newUser, err := api.Backend.CreateUser(req.Context(), createUser.Username, createUser.Password, createUser.Email, role)
	if err != nil {
		return userWriteError(err, createUser.Username)
	}

	resp := userModel(newUser)
	return result.Created(resp, "user '%s' (%s) created", resp.Username, resp.ID)
}

// HTTPGetUser returns a HandlerFunc that gets an existing user. All users may
// retrieve themselves, but only an admin user can retrieve details on other
// users.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the user being operated on and the logged-in user of the client
// making the request.
func (api API) HTTPGetUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.forbidOthers(req, user, id, "get"); !ok {
		return r
	}

	userInfo, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get user: " + err.Error())
	}

	return result.OK(userModel(userInfo), "user '%s' got %s", user.Username, describeTarget(user, userInfo))
}

// HTTPUpdateUser returns a HandlerFunc that updates an existing user. Only
// updates to properties that are not auto-calculated are respected (e.g. trying
// to update the created time will have no effect). All users may update
// themselves, but only the admin user may update other users.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the user being operated on and the logged-in user of the client
// making the request.
func (api API) HTTPUpdateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateUser)
}

func (api API) epUpdateUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.forbidOthers(req, user, id, "update"); !ok {
		return r
	}

	var updateReq UserUpdateRequest
	err := parseJSON(req, &updateReq)
	if err != nil {
		if errors.Is(err, serr.ErrBodyUnmarshal) {
			// did they send a normal user?
			var normalUser UserModel
			if parseJSON(req, &normalUser) == nil {
				return result.BadRequest("updated fields must be objects with keys {'u': true, 'v': NEW_VALUE}", "request is UserModel, not UserUpdateRequest")
			}
		}

		return result.BadRequest(err.Error(), err.Error())
	}

	// only admins may change roles, including their own to something else
	if updateReq.Role.Update && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) update role: forbidden", user.Username, user.Role)
	}

	// parse the role before anything hits the DB
	var updateRole dao.Role
	if updateReq.Role.Update {
		updateRole, err = dao.ParseRole(updateReq.Role.Value)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	existing, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	var newEmail string
	if existing.Email != nil {
		newEmail = existing.Email.Address
	}
	newEmail = updateReq.Email.or(newEmail)
	newID := updateReq.ID.or(existing.ID.String())
	newUsername := updateReq.Username.or(existing.Username)
	newRole := existing.Role
	if updateReq.Role.Update {
		newRole = updateRole
	}

	// TODO: password and the rest of the user are updated in two separate
	// calls; fold these together once dao.Store gets transactions.
	updated, err := api.Backend.UpdateUser(req.Context(), id.String(), newID, newUsername, newEmail, newRole)
	if err != nil {
		return userWriteError(err, newUsername)
	}
	if updateReq.Password.Update {
		updated, err = api.Backend.UpdatePassword(req.Context(), updated.ID.String(), updateReq.Password.Value)
		if err != nil {
			return userWriteError(err, newUsername)
		}
	}

	resp := userModel(updated)
	return result.OK(resp, "user '%s' (%s) updated", resp.Username, resp.ID)
}

// HTTPReplaceUser returns a HandlerFunc that replaces a user entity with a
// completely new one with the same ID. Only an admin user may replace a user.
// If the user with the given ID does not exist, it will be created.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the user being replaced and the logged-in user of the client making
// the request.
func (api API) HTTPReplaceUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epReplaceUser)
}

func (api API) epReplaceUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) replace user: forbidden", user.Username, user.Role)
	}

	createUser, role, errResult, ok := parseNewUser(req)
	if !ok {
		return errResult
	}
	if createUser.ID == "" {
		createUser.ID = id.String()
	}
	if createUser.ID != id.String() {
		return result.BadRequest("id: must be same as ID in URI", "body ID different from URI ID")
	}

	// out with the old
	if _, err := api.Backend.DeleteUser(req.Context(), id.String()); err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete replaced user: " + err.Error())
	}

	newUser, err := api.Backend.CreateUser(req.Context(), createUser.Username, createUser.Password, createUser.Email, role)
	if err != nil {
		return userWriteError(err, createUser.Username)
	}

	// but also update it immediately to set its user ID
	newUser, err = api.Backend.UpdateUser(req.Context(), newUser.ID.String(), createUser.ID, newUser.Username, createUser.Email, newUser.Role)
	if err != nil {
		return userWriteError(err, createUser.Username)
	}

	resp := userModel(newUser)
	return result.Created(resp, "user '%s' (%s) replaced", resp.Username, resp.ID)
}

// HTTPDeleteUser returns a HandlerFunc that deletes a user entity along with
// every automaton they own. All users may delete themselves, but only an admin
// user may delete another user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the user being deleted and the logged-in user of the client making
// the request.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.forbidOthers(req, user, id, "delete"); !ok {
		return r
	}

	deletedUser, err := api.Backend.DeleteUser(req.Context(), id.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError("could not delete user: " + err.Error())
	}
	deletedUser.ID = id

	return result.NoContent("user '%s' deleted %s", user.Username, describeTarget(user, deletedUser))
}

// forbidOthers checks that user may act on the user with ID target. Users may
// always act on themselves and admins may act on anyone. If the action is not
// allowed, ok is false and r is the response to give.
func (api API) forbidOthers(req *http.Request, user dao.User, target uuid.UUID, action string) (r result.Result, ok bool) {
	if target == user.ID || user.Role == dao.Admin {
		return r, true
	}

	otherUserStr := target.String()
	if otherUser, err := api.Backend.GetUser(req.Context(), target.String()); err == nil {
		otherUserStr = "'" + otherUser.Username + "'"
	}

	return result.Forbidden("user '%s' (role %s) %s user %s: forbidden", user.Username, user.Role, action, otherUserStr), false
}

// describeTarget gives how target is named in the log line of a request made
// by user.
func describeTarget(user, target dao.User) string {
	if target.ID == user.ID {
		return "self"
	}
	if target.Username == "" {
		return "user " + target.ID.String() + " (no-op)"
	}
	return "user '" + target.Username + "'"
}

// parseNewUser reads a UserModel for a user about to be created from the body
// of req. If it is not valid, ok is false and errResult is the response to
// give.
func parseNewUser(req *http.Request) (u UserModel, role dao.Role, errResult result.Result, ok bool) {
	if err := parseJSON(req, &u); err != nil {
		return u, role, result.BadRequest(err.Error(), err.Error()), false
	}
	if u.Username == "" {
		return u, role, result.BadRequest("username: property is empty or missing from request", "empty username"), false
	}
	if u.Password == "" {
		return u, role, result.BadRequest("password: property is empty or missing from request", "empty password"), false
	}

	role = dao.Unverified
	if u.Role != "" {
		var err error
		role, err = dao.ParseRole(u.Role)
		if err != nil {
			return u, role, result.BadRequest("role: "+err.Error(), "role: %s", err.Error()), false
		}
	}

	return u, role, result.Result{}, true
}

// userWriteError gives the response for an error from creating or updating
// the user with the given username.
func userWriteError(err error, username string) result.Result {
	if errors.Is(err, serr.ErrAlreadyExists) {
		return result.Conflict("User with that username already exists", "user '%s' already exists", username)
	} else if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	} else if errors.Is(err, serr.ErrBadArgument) {
		return result.BadRequest(err.Error(), err.Error())
	}
	return result.InternalServerError(err.Error())
}
