// Package sqlite is a session/dao.Store backed by a modernc.org/sqlite
// file, grounded directly on the teacher's server/dao/sqlite package: one
// store struct wiring together per-resource repositories, REZI for
// marshaling the irregular payload column (there: game state; here: a
// session's statement history), and a shared wrapDBError helper that turns
// the driver's sentinel conditions (constraint violation, no rows) into
// dao package errors.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/dekarrin/mathscript/session/dao"
)

type store struct {
	db    *sql.DB
	sesh  *SessionsDB
}

// NewDatastore opens (creating if necessary) a sqlite database file named
// "sessions.db" under storageDir.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{}

	fileName := filepath.Join(storageDir, "sessions.db")
	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.sesh = &SessionsDB{db: st.db}
	if err := st.sesh.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sesh
}

func (s *store) Close() error {
	return s.db.Close()
}

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		history TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	id := s.ID
	if id == uuid.Nil {
		var err error
		id, err = uuid.NewRandom()
		if err != nil {
			return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
		}
	}
	created := s.Created
	if created.IsZero() {
		created = time.Now()
	}

	encHistory, err := encodeHistory(s.History)
	if err != nil {
		return dao.Session{}, err
	}

	stmt, err := repo.db.Prepare(`INSERT INTO sessions (id, history, created) VALUES (?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	_, err = stmt.ExecContext(ctx, id.String(), encHistory, created.Unix())
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, id)
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, history, created FROM sessions WHERE id = ?;`, id.String())
	return scanSession(row)
}

func (repo *SessionsDB) GetAll(ctx context.Context) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, history, created FROM sessions;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, nil
}

func (repo *SessionsDB) AppendHistory(ctx context.Context, id uuid.UUID, statement string) (dao.Session, error) {
	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.Session{}, err
	}
	existing.History = append(existing.History, statement)

	encHistory, err := encodeHistory(existing.History)
	if err != nil {
		return dao.Session{}, err
	}

	_, err = repo.db.ExecContext(ctx, `UPDATE sessions SET history = ? WHERE id = ?;`, encHistory, id.String())
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	return existing, nil
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?;`, id.String())
	if err != nil {
		return wrapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if n == 0 {
		return dao.ErrNotFound
	}
	return nil
}

func (repo *SessionsDB) Close() error {
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (dao.Session, error) {
	var idStr, encHistory string
	var createdUnix int64

	if err := row.Scan(&idStr, &encHistory, &createdUnix); err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return dao.Session{}, fmt.Errorf("stored session ID %q is not a valid UUID: %w", idStr, err)
	}

	history, err := decodeHistory(encHistory)
	if err != nil {
		return dao.Session{}, err
	}

	return dao.Session{ID: id, Created: time.Unix(createdUnix, 0), History: history}, nil
}

func encodeHistory(history []string) (string, error) {
	data, err := rezi.Enc(history)
	if err != nil {
		return "", fmt.Errorf("REZI encode: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func decodeHistory(encoded string) ([]string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode stored history to bytes: %w", err)
	}
	var history []string
	if _, err := rezi.Dec(data, &history); err != nil {
		return nil, fmt.Errorf("REZI decode: %w: %w", err, dao.ErrDecodingFailure)
	}
	return history, nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
