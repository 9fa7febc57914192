// Package inmem is a volatile, map-backed session/dao.Store, grounded on
// the teacher's server/dao/inmem package: the same Store shape as the
// sqlite backend with no persistence, useful for tests and for running the
// server without a storage directory.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/mathscript/session/dao"
)

type store struct {
	sesh *sessionsRepo
}

func NewDatastore() dao.Store {
	return &store{sesh: newSessionsRepo()}
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sesh
}

func (s *store) Close() error {
	return nil
}

type sessionsRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]dao.Session
}

func newSessionsRepo() *sessionsRepo {
	return &sessionsRepo{data: make(map[uuid.UUID]dao.Session)}
}

func (r *sessionsRepo) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID
	if id == uuid.Nil {
		var err error
		id, err = uuid.NewRandom()
		if err != nil {
			return dao.Session{}, err
		}
	}
	created := s.Created
	if created.IsZero() {
		created = time.Now()
	}

	rec := dao.Session{ID: id, Created: created, History: append([]string(nil), s.History...)}
	r.data[id] = rec
	return rec, nil
}

func (r *sessionsRepo) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.data[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	return s, nil
}

func (r *sessionsRepo) GetAll(ctx context.Context) ([]dao.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]dao.Session, 0, len(r.data))
	for _, s := range r.data {
		all = append(all, s)
	}
	return all, nil
}

func (r *sessionsRepo) AppendHistory(ctx context.Context, id uuid.UUID, statement string) (dao.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.data[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	s.History = append(append([]string(nil), s.History...), statement)
	r.data[id] = s
	return s, nil
}

func (r *sessionsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return dao.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *sessionsRepo) Close() error {
	return nil
}
