// Package result contains results that are used to write out API responses.
//
// Every constructor takes an optional internal message. If given, its first
// element must be a format string and the rest are the arguments to it. The
// internal message goes to the server log and is never shown to the client.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// internal builds the internal message from the optional format and args
// passed to a constructor, using def if none were given.
func internal(def string, internalMsg []interface{}) string {
	if len(internalMsg) < 1 {
		return def
	}
	return fmt.Sprintf(internalMsg[0].(string), internalMsg[1:]...)
}

// OK returns a Result containing an HTTP-200 with respObj as its JSON body.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusOK, respObj, "%s", internal("OK", internalMsg))
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	return Response(http.StatusNoContent, nil, "%s", internal("no content", internalMsg))
}

// Created returns a Result containing an HTTP-201 with respObj as its JSON
// body.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusCreated, respObj, "%s", internal("created", internalMsg))
}

// Text returns a Result containing an HTTP-200 whose body is the given text,
// sent as plain text instead of JSON.
func Text(body string, internalMsg ...interface{}) Result {
	return Result{
		Status:      http.StatusOK,
		InternalMsg: internal("OK", internalMsg),
		resp:        body,
	}
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusConflict, userMsg, "%s", internal("conflict", internalMsg))
}

// BadRequest returns a Result containing an HTTP-400.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, "%s", internal("bad request", internalMsg))
}

// UnprocessableEntity returns a Result containing an HTTP-422. It is for
// requests that are well-formed but whose content cannot be acted on, such as
// a regex with a syntax error in it.
func UnprocessableEntity(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusUnprocessableEntity, userMsg, "%s", internal("unprocessable entity", internalMsg))
}

// MethodNotAllowed returns a Result containing an HTTP-405 that names the
// method and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, "%s", internal("method not allowed", internalMsg))
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", "%s", internal("not found", internalMsg))
}

// Forbidden returns a Result containing an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	return Err(http.StatusForbidden, "You don't have permission to do that", "%s", internal("forbidden", internalMsg))
}

// Unauthorized returns a Result containing an HTTP-401 along with the proper
// WWW-Authenticate header. If userMsg is empty a generic one is used.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, "%s", internal("unauthorized", internalMsg)).
		WithHeader("WWW-Authenticate", `Bearer realm="FSMC server", charset="utf-8"`)
}

// InternalServerError returns a Result containing an HTTP-500. The client
// only ever sees a generic message.
func InternalServerError(internalMsg ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", "%s", internal("internal server error", internalMsg))
}

// Response returns a non-error Result with a JSON body. If status is
// http.StatusNoContent, respObj will not be read and may be nil. Otherwise,
// respObj MUST NOT be nil.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Err returns an error Result whose JSON body is an ErrorResponse carrying
// userMsg.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// TextErr is like Err but writes userMsg as plain text with no JSON encoding
// of any kind. It is for when JSON encoding itself may be what failed.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Redirection returns a Result containing an HTTP-308 to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: "redirect -> " + uri,
		redir:       uri,
	}
}

// Result is a response that is ready to be written to a client. The zero value
// is not valid; get one from a constructor.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string
	hdrs  [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

// WithHeader returns a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	withHdr := r
	withHdr.respJSONBytes = nil
	withHdr.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(withHdr.hdrs, r.hdrs)
	withHdr.hdrs = append(withHdr.hdrs, [2]string{name, val})
	return withHdr
}

// PrepareMarshaledResponse encodes the JSON body of r ahead of time so that
// a marshaling problem can be found before anything is written. It does
// nothing for results with no JSON body or that were already prepared.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent && r.redir == "" {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes the Result to w. It panics if the Result was never
// populated or its response cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var body []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		body = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent && r.redir == "" {
			body = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}
	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(body)
	}
}
