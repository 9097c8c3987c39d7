package fsms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/fsmc/internal/automaton"
	"github.com/dekarrin/fsmc/internal/session"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/dekarrin/fsmc/server/serr"
	"github.com/google/uuid"
)

const (
	SourceRegex   = "regex"
	SourceGrammar = "grammar"
	SourceMealy   = "mealy"
)

// Machine is a stored automaton with its NFA and DFA decoded.
type Machine struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	SourceKind string
	Source     string
	NFA        automaton.Automaton
	DFA        automaton.Automaton
	Created    time.Time
}

// MatchResult is the outcome of running one input through a Machine's DFA.
type MatchResult struct {
	Input    string
	Accepted bool

	// Path is the DFA states passed through, starting with the start state.
	Path []string
}

// Match runs each input through the DFA of m.
func (m Machine) Match(inputs []string) []MatchResult {
	sess := session.Session{NFA: m.NFA, DFA: m.DFA}

	results := make([]MatchResult, len(inputs))
	for i, in := range inputs {
		path, accepted := sess.Trace(in)
		results[i] = MatchResult{Input: in, Accepted: accepted, Path: path}
	}
	return results
}

// CreateAutomaton compiles source and stores the result as a new automaton
// owned by the user with the given ID. kind must be SourceRegex, SourceGrammar,
// or SourceMealy. For SourceMealy, source is a Mealy machine table.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If source does not compile, it
// will match both serr.ErrCompile and serr.ErrBadArgument. If any other
// argument is invalid, it will match serr.ErrBadArgument. If the error occured
// due to an unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) CreateAutomaton(ctx context.Context, owner uuid.UUID, name, kind, source string) (Machine, error) {
	if name == "" {
		return Machine{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	var sess *session.Session
	var err error
	switch strings.ToLower(kind) {
	case SourceRegex:
		sess, err = session.NewFromRegex(source)
	case SourceGrammar:
		sess, err = session.NewFromGrammar(source, name)
	case SourceMealy:
		sess, err = session.NewFromMealy(strings.NewReader(source), name)
	default:
		return Machine{}, serr.New(fmt.Sprintf("kind must be %q, %q, or %q", SourceRegex, SourceGrammar, SourceMealy), serr.ErrBadArgument)
	}
	if err != nil {
		return Machine{}, serr.New("", err, serr.ErrCompile, serr.ErrBadArgument)
	}

	nfaData, err := sess.NFA.MarshalBinary()
	if err != nil {
		return Machine{}, serr.New("could not encode NFA", err)
	}
	dfaData, err := sess.DFA.MarshalBinary()
	if err != nil {
		return Machine{}, serr.New("could not encode DFA", err)
	}

	stored, err := svc.DB.Automata().Create(ctx, dao.Automaton{
		UserID:     owner,
		Name:       name,
		SourceKind: strings.ToLower(kind),
		Source:     source,
		NFA:        nfaData,
		DFA:        dfaData,
	})
	if err != nil {
		return Machine{}, serr.WrapDB("could not create automaton", err)
	}

	return Machine{
		ID:         stored.ID,
		UserID:     stored.UserID,
		Name:       stored.Name,
		SourceKind: stored.SourceKind,
		Source:     stored.Source,
		NFA:        sess.NFA,
		DFA:        sess.DFA,
		Created:    stored.Created,
	}, nil
}

// GetAutomaton returns the automaton with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no automaton with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc Service) GetAutomaton(ctx context.Context, id string) (Machine, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return Machine{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	stored, err := svc.DB.Automata().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return Machine{}, serr.ErrNotFound
		}
		return Machine{}, serr.WrapDB("could not get automaton", err)
	}

	return decodeMachine(stored)
}

// GetAllAutomata returns every automaton owned by the user with the given ID,
// oldest first. A user with no automata gets an empty slice.
func (svc Service) GetAllAutomata(ctx context.Context, owner uuid.UUID) ([]Machine, error) {
	stored, err := svc.DB.Automata().GetAllByUser(ctx, owner)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return []Machine{}, nil
		}
		return nil, serr.WrapDB("could not get automata", err)
	}

	all := make([]Machine, len(stored))
	for i := range stored {
		all[i], err = decodeMachine(stored[i])
		if err != nil {
			return nil, err
		}
	}
	return all, nil
}

// DeleteAutomaton deletes the automaton with the given ID and returns it as
// it was just before deletion.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no automaton with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc Service) DeleteAutomaton(ctx context.Context, id string) (Machine, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return Machine{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	deleted, err := svc.DB.Automata().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return Machine{}, serr.ErrNotFound
		}
		return Machine{}, serr.WrapDB("could not delete automaton", err)
	}

	return decodeMachine(deleted)
}

func decodeMachine(stored dao.Automaton) (Machine, error) {
	m := Machine{
		ID:         stored.ID,
		UserID:     stored.UserID,
		Name:       stored.Name,
		SourceKind: stored.SourceKind,
		Source:     stored.Source,
		Created:    stored.Created,
	}

	if err := m.NFA.UnmarshalBinary(stored.NFA); err != nil {
		return Machine{}, serr.New(fmt.Sprintf("stored NFA of %s is corrupt", stored.ID), err, serr.ErrDB)
	}
	if err := m.DFA.UnmarshalBinary(stored.DFA); err != nil {
		return Machine{}, serr.New(fmt.Sprintf("stored DFA of %s is corrupt", stored.ID), err, serr.ErrDB)
	}

	return m, nil
}
