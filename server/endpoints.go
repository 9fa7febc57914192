package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/mathscript/host/stdhost"
	"github.com/dekarrin/mathscript/internal/version"
	"github.com/dekarrin/mathscript/server/middle"
	"github.com/dekarrin/mathscript/server/serr"
	"github.com/dekarrin/mathscript/session"
	"github.com/dekarrin/mathscript/session/dao"
)

// URLParamKeyID is the chi route-param name used for every endpoint that
// takes a single resource ID in its path.
const URLParamKeyID = "id"

type EndpointFunc func(req *http.Request) EndpointResult

// Endpoint adapts an EndpointFunc to an http.HandlerFunc, applying the
// unauthorized/forbidden/error response delay uniformly across every
// endpoint rather than leaving each one to remember it.
func Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		result := ep(req)

		if result.status == http.StatusUnauthorized || result.status == http.StatusForbidden || result.status == http.StatusInternalServerError {
			time.Sleep(UnauthDelay)
		}

		result.writeResponse(w, req)
	}
}

// requireIDParam gets the ID of the main entity being referenced in the URI
// and returns it. It panics if the key is not there or is not parsable,
// since every route that calls it has {id} in its pattern.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, URLParamKeyID, uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter does not exist")
	}
	val, err = parse(valStr)
	if err != nil {
		return val, fmt.Errorf("parameter is malformed: %w", err)
	}
	return val, nil
}

func (api *API) epCreateToken(req *http.Request) EndpointResult {
	var body TokenRequest
	if err := parseJSON(req, &body); err != nil {
		return jsonBadRequest(serr.New(err.Error(), serr.ErrBodyUnmarshal).Error(), err.Error())
	}
	if body.APIKey == "" {
		return jsonBadRequest("api_key: property is empty or missing from request", "empty api_key")
	}
	if !api.checkAPIKey(body.APIKey) {
		return jsonUnauthorized(serr.ErrBadCredentials.Error(), "bad api key")
	}

	subjID, err := uuid.NewRandom()
	if err != nil {
		return jsonInternalServerError("could not generate subject ID: %s", err.Error())
	}

	tok, err := generateJWT(api.secret, subjID.String(), DefaultTokenTTL)
	if err != nil {
		return jsonInternalServerError("could not generate token: %s", err.Error())
	}

	resp := TokenResponse{Token: tok, ExpiresAt: time.Now().Add(DefaultTokenTTL)}
	return jsonCreated(resp, "issued token for subject '%s'", subjID)
}

func (api *API) epCreateSession(req *http.Request) EndpointResult {
	sess, err := session.New(api.host)
	if err != nil {
		return jsonInternalServerError("could not create session: %s", err.Error())
	}

	rec, err := api.db.Sessions().Create(req.Context(), dao.Session{
		ID:      sess.ID,
		Created: sess.Created,
		History: sess.History(),
	})
	if err != nil {
		return jsonInternalServerError("could not persist session: %s", err.Error())
	}

	subject, _ := middle.Subject(req.Context())
	return jsonCreated(sessionResponseFrom(rec), "subject '%s' created session '%s'", subject, rec.ID)
}

func (api *API) epGetSession(req *http.Request) EndpointResult {
	id := requireIDParam(req)

	rec, err := api.db.Sessions().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return jsonNotFound(serr.New(fmt.Sprintf("session '%s' does not exist", id), serr.ErrNotFound).Error())
		}
		return jsonInternalServerError("could not retrieve session: %s", err.Error())
	}

	return jsonOK(sessionResponseFrom(rec), "retrieved session '%s'", id)
}

func (api *API) epEvalSession(req *http.Request) EndpointResult {
	id := requireIDParam(req)

	var body EvalRequest
	if err := parseJSON(req, &body); err != nil {
		return jsonBadRequest(serr.New(err.Error(), serr.ErrBodyUnmarshal).Error(), err.Error())
	}
	if body.Expression == "" {
		return jsonBadRequest("expression: property is empty or missing from request", "empty expression")
	}

	rec, err := api.db.Sessions().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return jsonNotFound(serr.New(fmt.Sprintf("session '%s' does not exist", id), serr.ErrNotFound).Error())
		}
		return jsonInternalServerError("could not retrieve session: %s", err.Error())
	}

	sess, err := session.Restore(api.host, rec.ID, rec.Created, rec.History)
	if err != nil {
		return jsonInternalServerError("could not restore session '%s': %s", id, err.Error())
	}

	result, err := sess.Eval(body.Expression)
	if err != nil {
		return jsonBadRequest(serr.New(err.Error(), serr.ErrEval).Error(), "session '%s' eval %q: %s", id, body.Expression, err.Error())
	}

	updated, err := api.db.Sessions().AppendHistory(req.Context(), id, body.Expression)
	if err != nil {
		return jsonInternalServerError("could not persist evaluation: %s", err.Error())
	}

	resp := EvalResponse{
		Result:  result,
		Session: sessionResponseFrom(updated),
	}
	return jsonOK(resp, "session '%s' evaluated %q", id, body.Expression)
}

func (api *API) epDeleteSession(req *http.Request) EndpointResult {
	id := requireIDParam(req)

	if err := api.db.Sessions().Delete(req.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return jsonNotFound(serr.New(fmt.Sprintf("session '%s' does not exist", id), serr.ErrNotFound).Error())
		}
		return jsonInternalServerError("could not delete session: %s", err.Error())
	}

	return jsonNoContent("deleted session '%s'", id)
}

func (api *API) epInfo(req *http.Request) EndpointResult {
	units := map[string][]string{}
	for _, u := range api.defaultUnits {
		units[u] = stdhost.UnitsOf(u)
	}

	resp := InfoResponse{
		Version:      version.Current,
		DefaultUnits: units,
	}
	return jsonOK(resp, "info requested")
}
