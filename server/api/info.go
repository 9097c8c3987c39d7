package api

import (
	"net/http"

	"github.com/dekarrin/fsmc/internal/version"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/fsms"
	"github.com/dekarrin/fsmc/server/middle"
	"github.com/dekarrin/fsmc/server/result"
)

// HTTPGetInfo returns a HandlerFunc that gives the server and compiler
// versions along with what the automata endpoints accept. It does not need a
// login, but the log line names the user if there is one.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.FSMC = version.Current
	resp.Kinds = []string{fsms.SourceRegex, fsms.SourceGrammar, fsms.SourceMealy}
	resp.Formats = []string{formatCSV, formatDOT, formatMealy}

	who := "unauthed client"
	if loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool); loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		who = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got API info", who)
}
