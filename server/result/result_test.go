package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name         string
		result       Result
		expectStatus int
		expectType   string
		expectBody   string
		expectHeader map[string]string
	}{
		{
			name:         "ok json",
			result:       OK(map[string]int{"a": 1}),
			expectStatus: http.StatusOK,
			expectType:   "application/json",
			expectBody:   `{"a":1}`,
		},
		{
			name:         "no content has no body",
			result:       NoContent(),
			expectStatus: http.StatusNoContent,
			expectType:   "application/json",
			expectBody:   "",
		},
		{
			name:         "error body",
			result:       BadRequest("bad thing", "internal detail"),
			expectStatus: http.StatusBadRequest,
			expectType:   "application/json",
			expectBody:   `{"error":"bad thing","status":400}`,
		},
		{
			name:         "unprocessable",
			result:       UnprocessableEntity("syntax error at 3"),
			expectStatus: http.StatusUnprocessableEntity,
			expectType:   "application/json",
			expectBody:   `{"error":"syntax error at 3","status":422}`,
		},
		{
			name:         "plain text",
			result:       Text("a,b\n"),
			expectStatus: http.StatusOK,
			expectType:   "text/plain; charset=utf-8",
			expectBody:   "a,b\n",
		},
		{
			name:         "redirect keeps location after WithHeader",
			result:       Redirection("/api/v1/info").WithHeader("X-Test", "1"),
			expectStatus: http.StatusPermanentRedirect,
			expectType:   "text/plain; charset=utf-8",
			expectBody:   "",
			expectHeader: map[string]string{"Location": "/api/v1/info", "X-Test": "1"},
		},
		{
			name:         "unauthorized sets challenge",
			result:       Unauthorized(""),
			expectStatus: http.StatusUnauthorized,
			expectType:   "application/json",
			expectHeader: map[string]string{"WWW-Authenticate": `Bearer realm="FSMC server", charset="utf-8"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			w := httptest.NewRecorder()

			tc.result.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectType, w.Header().Get("Content-Type"))
			if tc.expectBody != "" || tc.expectHeader == nil {
				assert.Equal(tc.expectBody, w.Body.String())
			}
			for k, v := range tc.expectHeader {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_WriteResponse_Unpopulated(t *testing.T) {
	assert.Panics(t, func() {
		Result{}.WriteResponse(httptest.NewRecorder())
	})
}
