package api

import (
	"time"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/fsms"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Expires string `json:"expires"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		FSMC   string `json:"fsmc"`
	} `json:"version"`

	// Kinds is the source kinds automata can be compiled from.
	Kinds []string `json:"kinds"`

	// Formats is the formats the table endpoint can give.
	Formats []string `json:"formats"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type UserUpdateRequest struct {
	ID       UpdateString `json:"id,omitempty"`
	Username UpdateString `json:"username,omitempty"`
	Password UpdateString `json:"password,omitempty"`
	Email    UpdateString `json:"email,omitempty"`
	Role     UpdateString `json:"role,omitempty"`
}

type UpdateString struct {
	Update bool   `json:"u,omitempty"`
	Value  string `json:"v,omitempty"`
}

// or gives the new value if the field is being updated, else cur.
func (us UpdateString) or(cur string) string {
	if us.Update {
		return us.Value
	}
	return cur
}

// AutomatonRequest is the body of a request to compile a new automaton.
type AutomatonRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

type AutomatonModel struct {
	URI     string       `json:"uri"`
	ID      string       `json:"id"`
	UserID  string       `json:"user_id"`
	Name    string       `json:"name"`
	Kind    string       `json:"kind"`
	Source  string       `json:"source"`
	Created string       `json:"created"`
	NFA     MachineModel `json:"nfa"`
	DFA     MachineModel `json:"dfa"`
}

type MachineModel struct {
	Start     string       `json:"start"`
	Alphabet  []string     `json:"alphabet"`
	Accepting []string     `json:"accepting"`
	States    []StateModel `json:"states"`
}

type StateModel struct {
	Name        string              `json:"name"`
	Output      string              `json:"output,omitempty"`
	Transitions map[string][]string `json:"transitions,omitempty"`

	// Origin is the NFA states a DFA state was made from.
	Origin []string `json:"origin,omitempty"`
}

type MatchRequest struct {
	Inputs []string `json:"inputs"`
}

type MatchResultModel struct {
	Input    string   `json:"input"`
	Accepted bool     `json:"accepted"`
	Path     []string `json:"path"`
}

type MatchResponse struct {
	Results []MatchResultModel `json:"results"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func automatonModel(m fsms.Machine) AutomatonModel {
	return AutomatonModel{
		URI:     PathPrefix + "/automata/" + m.ID.String(),
		ID:      m.ID.String(),
		UserID:  m.UserID.String(),
		Name:    m.Name,
		Kind:    m.SourceKind,
		Source:  m.Source,
		Created: m.Created.Format(time.RFC3339),
		NFA:     machineModel(m.NFA),
		DFA:     machineModel(m.DFA),
	}
}

func machineModel(a automaton.Automaton) MachineModel {
	mm := MachineModel{
		Start:     a.Start,
		Alphabet:  a.Alphabet(),
		Accepting: a.AcceptingStates().Elements(),
		States:    make([]StateModel, 0, a.Len()),
	}
	if mm.Alphabet == nil {
		mm.Alphabet = []string{}
	}
	if mm.Accepting == nil {
		mm.Accepting = []string{}
	}

	for _, name := range a.States() {
		sm := StateModel{
			Name:   name,
			Output: a.Output(name),
			Origin: a.Origin(name),
		}
		for _, t := range a.Transitions(name) {
			if sm.Transitions == nil {
				sm.Transitions = map[string][]string{}
			}
			sym := t.Symbol
			if sym == automaton.Epsilon {
				sym = automaton.EpsilonSymbol
			}
			sm.Transitions[sym] = t.Targets
		}
		mm.States = append(mm.States, sm)
	}

	return mm
}
