package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/fsmc/server/dao"
	"github.com/google/uuid"
)

const automatonColumns = `id, user_id, name, source_kind, source, nfa, dfa, created`

type AutomataDB struct {
	db *sql.DB
}

func (repo *AutomataDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS automata (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		name TEXT NOT NULL,
		source_kind TEXT NOT NULL,
		source TEXT NOT NULL,
		nfa TEXT NOT NULL,
		dfa TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AutomataDB) Create(ctx context.Context, a dao.Automaton) (dao.Automaton, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Automaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO automata (` + automatonColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(a.UserID),
		a.Name,
		a.SourceKind,
		a.Source,
		convertToDB_ByteSlice(a.NFA),
		convertToDB_ByteSlice(a.DFA),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AutomataDB) GetAll(ctx context.Context) ([]dao.Automaton, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+automatonColumns+` FROM automata ORDER BY created, id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectAutomata(rows)
}

func (repo *AutomataDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Automaton, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+automatonColumns+` FROM automata WHERE user_id = ? ORDER BY created, id;`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}

	all, err := collectAutomata(rows)
	if err != nil {
		return all, err
	}
	if len(all) < 1 {
		return nil, dao.ErrNotFound
	}
	return all, nil
}

func (repo *AutomataDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+automatonColumns+` FROM automata WHERE id = ?;`, convertToDB_UUID(id))
	return scanAutomaton(row)
}

func (repo *AutomataDB) Delete(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM automata WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *AutomataDB) Close() error {
	return nil
}

func collectAutomata(rows *sql.Rows) ([]dao.Automaton, error) {
	defer rows.Close()

	var all []dao.Automaton
	for rows.Next() {
		a, err := scanAutomaton(rows)
		if err != nil {
			return all, err
		}
		all = append(all, a)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func scanAutomaton(row scanner) (dao.Automaton, error) {
	var a dao.Automaton
	var id string
	var userID string
	var nfa string
	var dfa string
	var created int64

	err := row.Scan(
		&id,
		&userID,
		&a.Name,
		&a.SourceKind,
		&a.Source,
		&nfa,
		&dfa,
		&created,
	)
	if err != nil {
		return a, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &a.ID)
	if err != nil {
		return a, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_UUID(userID, &a.UserID)
	if err != nil {
		return a, fmt.Errorf("stored user ID %q is invalid: %w", userID, err)
	}
	err = convertFromDB_ByteSlice(nfa, &a.NFA)
	if err != nil {
		return a, fmt.Errorf("stored NFA for %s is invalid: %w", a.ID, err)
	}
	err = convertFromDB_ByteSlice(dfa, &a.DFA)
	if err != nil {
		return a, fmt.Errorf("stored DFA for %s is invalid: %w", a.ID, err)
	}
	convertFromDB_Time(created, &a.Created)

	return a, nil
}
