// Package session wraps a single expr.Scope and host.Host pair into a
// long-lived, nameable evaluation session: the thing a REPL or an HTTP
// client actually holds onto across multiple calls to Eval.
//
// A Session remembers the source text of every statement it has evaluated.
// That history is what session/dao persists; a Session is rebuilt by
// replaying it against a fresh Scope rather than by serializing the Scope's
// values directly, which keeps persistence independent of whatever
// host.Host implementation produced those values.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/mathscript/expr"
	"github.com/dekarrin/mathscript/host"
)

// Session is a named, stateful evaluation context: a Scope that
// accumulates variable and function bindings across repeated calls to Eval.
type Session struct {
	ID      uuid.UUID
	Created time.Time

	host    host.Host
	scope   *expr.Scope
	history []string
}

// New creates a fresh, empty Session bound to h.
func New(h host.Host) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	scope, err := expr.NewScope(nil)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Created: time.Now(), host: h, scope: scope}, nil
}

// Restore rebuilds a Session by replaying a previously recorded history of
// statements against a fresh Scope bound to h. The replay uses h for
// compilation, so restoring against a differently configured Host (a
// different NumberKind, say) is possible but will re-derive values under
// the new configuration rather than reproduce the original byte-for-byte
// state.
func Restore(h host.Host, id uuid.UUID, created time.Time, history []string) (*Session, error) {
	s := &Session{ID: id, Created: created, host: h}
	scope, err := expr.NewScope(nil)
	if err != nil {
		return nil, err
	}
	s.scope = scope
	for _, src := range history {
		if _, err := expr.Eval(src, h, s.scope); err != nil {
			return nil, err
		}
		s.history = append(s.history, src)
	}
	return s, nil
}

// Eval parses and evaluates src against the session's scope, recording src
// in the session's history on success. A failed evaluation is not
// recorded, so a session's history always replays cleanly.
func (s *Session) Eval(src string) (host.Value, error) {
	v, err := expr.Eval(src, s.host, s.scope)
	if err != nil {
		return nil, err
	}
	s.history = append(s.history, src)
	return v, nil
}

// Scope exposes the session's underlying Scope, e.g. for a caller that
// wants to seed or inspect bindings directly.
func (s *Session) Scope() *expr.Scope {
	return s.scope
}

// History returns the ordered list of statements this session has
// successfully evaluated.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}
