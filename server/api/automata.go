package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/fsmc/internal/render"
	"github.com/dekarrin/fsmc/internal/table"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/fsms"
	"github.com/dekarrin/fsmc/server/middle"
	"github.com/dekarrin/fsmc/server/result"
	"github.com/dekarrin/fsmc/server/serr"
)

const (
	formatCSV   = "csv"
	formatDOT   = "dot"
	formatMealy = "mealy"
)

// HTTPCreateAutomaton returns a HandlerFunc that compiles a regex or grammar
// into a new automaton owned by the logged-in user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateAutomaton)
}

func (api API) epCreateAutomaton(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var createReq AutomatonRequest
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if createReq.Kind == "" {
		createReq.Kind = fsms.SourceRegex
	}

	m, err := api.Backend.CreateAutomaton(req.Context(), user.ID, createReq.Name, createReq.Kind, createReq.Source)
	if err != nil {
		if errors.Is(err, serr.ErrCompile) {
			return result.UnprocessableEntity(err.Error(), "compile %s %q: %s", createReq.Kind, createReq.Name, err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(automatonModel(m), "user '%s' created automaton %q (%s)", user.Username, m.Name, m.ID)
}

// HTTPGetAllAutomata returns a HandlerFunc that retrieves every automaton
// owned by the logged-in user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllAutomata() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllAutomata)
}

func (api API) epGetAllAutomata(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	all, err := api.Backend.GetAllAutomata(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AutomatonModel, len(all))
	for i := range all {
		resp[i] = automatonModel(all[i])
	}

	return result.OK(resp, "user '%s' got all automata", user.Username)
}

// HTTPGetAutomaton returns a HandlerFunc that retrieves one automaton. Users
// may only retrieve their own automata unless they are an admin.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the automaton and the logged-in user of the client making the
// request.
func (api API) HTTPGetAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAutomaton)
}

func (api API) epGetAutomaton(req *http.Request) result.Result {
	m, errResult, ok := api.ownedAutomaton(req, "get")
	if !ok {
		return errResult
	}
	user := req.Context().Value(middle.AuthUser).(dao.User)

	return result.OK(automatonModel(m), "user '%s' got automaton %q (%s)", user.Username, m.Name, m.ID)
}

// HTTPGetAutomatonTable returns a HandlerFunc that gives the DFA of one
// automaton as plain text. The query parameter "format" selects "csv" (the
// default) for the transition table, "dot" for Graphviz output, or "mealy" for
// the DFA as a Mealy machine table. A query parameter "nfa" set to "true"
// selects the NFA instead of the DFA; it cannot be used with "mealy".
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the automaton and the logged-in user of the client making the
// request.
func (api API) HTTPGetAutomatonTable() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAutomatonTable)
}

func (api API) epGetAutomatonTable(req *http.Request) result.Result {
	m, errResult, ok := api.ownedAutomaton(req, "get table of")
	if !ok {
		return errResult
	}
	user := req.Context().Value(middle.AuthUser).(dao.User)

	a := m.DFA
	useNFA := req.URL.Query().Get("nfa") == "true"
	if useNFA {
		a = m.NFA
	}

	format := req.URL.Query().Get("format")
	switch format {
	case "", formatCSV:
		return result.Text(table.String(a), "user '%s' got table of automaton %q", user.Username, m.Name)
	case formatDOT:
		return result.Text(render.DOT(a, m.Name), "user '%s' got DOT of automaton %q", user.Username, m.Name)
	case formatMealy:
		if useNFA {
			return result.BadRequest("format: 'mealy' cannot be used with nfa=true", "mealy format of NFA requested")
		}
		text, err := table.StringAsMealy(a)
		if err != nil {
			return result.InternalServerError("stored DFA is not deterministic: " + err.Error())
		}
		return result.Text(text, "user '%s' got Mealy table of automaton %q", user.Username, m.Name)
	default:
		return result.BadRequest("format: must be 'csv', 'dot', or 'mealy'", "unknown format %q", format)
	}
}

// HTTPMatchAutomaton returns a HandlerFunc that runs each given input string
// through the DFA of one automaton and reports whether it is accepted.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the automaton and the logged-in user of the client making the
// request.
func (api API) HTTPMatchAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epMatchAutomaton)
}

func (api API) epMatchAutomaton(req *http.Request) result.Result {
	m, errResult, ok := api.ownedAutomaton(req, "match against")
	if !ok {
		return errResult
	}
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var matchReq MatchRequest
	if err := parseJSON(req, &matchReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	resp := MatchResponse{Results: []MatchResultModel{}}
	for _, r := range m.Match(matchReq.Inputs) {
		resp.Results = append(resp.Results, MatchResultModel{
			Input:    r.Input,
			Accepted: r.Accepted,
			Path:     r.Path,
		})
	}

	return result.OK(resp, "user '%s' matched %d input(s) against automaton %q", user.Username, len(resp.Results), m.Name)
}

// HTTPDeleteAutomaton returns a HandlerFunc that deletes an automaton. Users
// may only delete their own automata unless they are an admin.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the automaton and the logged-in user of the client making the
// request.
func (api API) HTTPDeleteAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteAutomaton)
}

func (api API) epDeleteAutomaton(req *http.Request) result.Result {
	m, errResult, ok := api.ownedAutomaton(req, "delete")
	if !ok {
		return errResult
	}
	user := req.Context().Value(middle.AuthUser).(dao.User)

	_, err := api.Backend.DeleteAutomaton(req.Context(), m.ID.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete automaton: " + err.Error())
	}

	return result.NoContent("user '%s' deleted automaton %q (%s)", user.Username, m.Name, m.ID)
}

// ownedAutomaton gets the automaton named by the id URL param. If it does not
// exist or the logged-in user may not access it, ok is false and errResult is
// the response to give.
func (api API) ownedAutomaton(req *http.Request, action string) (m fsms.Machine, errResult result.Result, ok bool) {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	m, err := api.Backend.GetAutomaton(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return m, result.NotFound(), false
		} else if errors.Is(err, serr.ErrBadArgument) {
			return m, result.BadRequest(err.Error(), err.Error()), false
		}
		return m, result.InternalServerError("could not get automaton: " + err.Error()), false
	}

	if m.UserID != user.ID && user.Role != dao.Admin {
		return m, result.Forbidden("user '%s' (role %s) %s automaton %s: forbidden", user.Username, user.Role, action, id), false
	}

	return m, result.Result{}, true
}
