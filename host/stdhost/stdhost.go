package stdhost

import (
	"strconv"
	"strings"

	"github.com/dekarrin/mathscript/host"
)

// Host is stdhost's concrete host.Host implementation: a fixed function
// table built once at construction time, matching the teacher's pattern of
// building a name-to-implementation map up front in initFuncs
// (tunascript/functions.go) rather than dispatching through a switch at
// call time.
type Host struct {
	fns  map[string]host.Func
	kind host.NumberKind
}

// Option configures a Host at construction time.
type Option func(*Host)

// WithNumberKind overrides the default numeric representation. stdhost only
// implements host.NumberKindDefault; WithNumberKind is provided so a caller
// embedding stdhost can probe the configuration surface without committing
// this package to carrying an arbitrary-precision library.
func WithNumberKind(k host.NumberKind) Option {
	return func(h *Host) { h.kind = k }
}

// New builds a ready-to-use Host with the standard function table.
func New(opts ...Option) *Host {
	h := &Host{fns: make(map[string]host.Func), kind: host.NumberKindDefault}
	registerFunctions(h.fns)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Function(name string) (host.Func, bool) {
	fn, ok := h.fns[name]
	return fn, ok
}

func (h *Host) Truthy(v host.Value) bool {
	return !asValue(v).isZero()
}

func (h *Host) NumberKind() host.NumberKind {
	return h.kind
}

func (h *Host) ParseNumber(text string) (host.Value, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, typeErrorf("malformed number literal %q", text)
	}
	return Number(f), nil
}

// Unit attaches a unit to v, normalizing it into that quantity's base unit
// -- the inverse of convertUnit, which takes a base-unit value back out to
// a named unit for the "to"/"in" operator. "5cm" (5 centimeters) must
// become 0.05 (base meters), not divide by the centimeter factor the way
// "100 to cm" does.
func (h *Host) Unit(v host.Value, name string) (host.Value, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}
	factor, ok := unitFactors[foldUnitName(name)]
	if !ok {
		return nil, false
	}
	n, err := asValue(v).toNumber()
	if err != nil {
		return nil, false
	}
	return Number(n * factor), true
}
