// Package server exposes a mathscript host.Host and session store over
// HTTP: create a session, evaluate statements against it, and fetch its
// current state. Modeled on the teacher's TunaQuestServer (dekarrin-tunaq's
// server package) -- a thin struct binding a dao.Store to a router -- with
// that type's user-login domain logic replaced by a single shared-secret
// credential, since this server has no user database.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/mathscript/host"
	"github.com/dekarrin/mathscript/host/stdhost"
	"github.com/dekarrin/mathscript/server/middle"
	"github.com/dekarrin/mathscript/session/dao"
)

// UnauthDelay is how long an AuthHandler sleeps before responding to a
// request with a bad or missing token, to make token guessing unattractive.
const UnauthDelay = 1 * time.Second

// DefaultTokenTTL is how long an issued bearer token remains valid.
const DefaultTokenTTL = 24 * time.Hour

// API is the mathscript HTTP server.
type API struct {
	db           dao.Store
	host         host.Host
	secret       []byte
	apiKeyHash   []byte
	unauthDelay  time.Duration
	defaultUnits []string
}

// New builds an API bound to store, using cfg for its secrets and default
// unit advertisement. The host is always stdhost for now; a future
// alternate Host could be selected by config the same way Database.Connect
// selects a dao.Store.
func New(cfg Config, store dao.Store) *API {
	return &API{
		db:           store,
		host:         stdhost.New(),
		secret:       []byte(cfg.JWTSecret),
		apiKeyHash:   []byte(cfg.APIKeyHash),
		unauthDelay:  UnauthDelay,
		defaultUnits: cfg.DefaultUnits,
	}
}

// Router builds the complete router for the API: the middleware stack and
// every endpoint.
func (api *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	r.Post("/tokens", Endpoint(api.epCreateToken))
	r.Get("/info", Endpoint(api.epInfo))

	r.Group(func(r chi.Router) {
		r.Use(middle.RequireAuth(api.verifyToken, api.unauthDelay))
		r.Post("/sessions", Endpoint(api.epCreateSession))
		r.Get("/sessions/{id}", Endpoint(api.epGetSession))
		r.Post("/sessions/{id}/eval", Endpoint(api.epEvalSession))
		r.Delete("/sessions/{id}", Endpoint(api.epDeleteSession))
	})

	return r
}

// verifyToken is the middle.Verifier this API supplies to its auth
// middleware: it checks a bearer token's signature and expiry and returns
// the subject it was issued for.
func (api *API) verifyToken(tok string) (string, error) {
	return validateJWT(api.secret, tok)
}

// checkAPIKey reports whether key matches the configured shared secret.
func (api *API) checkAPIKey(key string) bool {
	if len(api.apiKeyHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(api.apiKeyHash, []byte(key)) == nil
}
