package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/fsmc/internal/util"
	"github.com/dekarrin/fsmc/server/dao"
	"github.com/google/uuid"
)

func NewAutomataRepository() *InMemoryAutomataRepository {
	return &InMemoryAutomataRepository{
		automata:      make(map[uuid.UUID]dao.Automaton),
		byUserIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryAutomataRepository struct {
	mtx           sync.RWMutex
	automata      map[uuid.UUID]dao.Automaton
	byUserIDIndex map[uuid.UUID][]uuid.UUID
}

func (imar *InMemoryAutomataRepository) Close() error {
	return nil
}

func (imar *InMemoryAutomataRepository) Create(ctx context.Context, a dao.Automaton) (dao.Automaton, error) {
	imar.mtx.Lock()
	defer imar.mtx.Unlock()

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Automaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	a.ID = newUUID
	a.Created = time.Now()

	imar.automata[a.ID] = a
	imar.byUserIDIndex[a.UserID] = append(imar.byUserIDIndex[a.UserID], a.ID)

	return a, nil
}

func (imar *InMemoryAutomataRepository) GetAll(ctx context.Context) ([]dao.Automaton, error) {
	imar.mtx.RLock()
	defer imar.mtx.RUnlock()

	all := make([]dao.Automaton, 0, len(imar.automata))
	for k := range imar.automata {
		all = append(all, imar.automata[k])
	}

	return sortByCreation(all), nil
}

func (imar *InMemoryAutomataRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Automaton, error) {
	imar.mtx.RLock()
	defer imar.mtx.RUnlock()

	byUser := imar.byUserIDIndex[userID]
	if len(byUser) < 1 {
		return nil, dao.ErrNotFound
	}

	all := make([]dao.Automaton, len(byUser))
	for i := range byUser {
		all[i] = imar.automata[byUser[i]]
	}

	return sortByCreation(all), nil
}

func (imar *InMemoryAutomataRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	imar.mtx.RLock()
	defer imar.mtx.RUnlock()

	a, ok := imar.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}

	return a, nil
}

func (imar *InMemoryAutomataRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	imar.mtx.Lock()
	defer imar.mtx.Unlock()

	a, ok := imar.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}

	var remaining []uuid.UUID
	for _, other := range imar.byUserIDIndex[a.UserID] {
		if other != id {
			remaining = append(remaining, other)
		}
	}
	if len(remaining) < 1 {
		delete(imar.byUserIDIndex, a.UserID)
	} else {
		imar.byUserIDIndex[a.UserID] = remaining
	}
	delete(imar.automata, id)

	return a, nil
}

func sortByCreation(all []dao.Automaton) []dao.Automaton {
	return util.SortBy(all, func(l, r dao.Automaton) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.Before(r.Created)
	})
}
