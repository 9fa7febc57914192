package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/mathscript/session/dao"
)

// TokenRequest is the body of a POST /tokens request: the shared API key
// configured in Config.APIKeyHash.
type TokenRequest struct {
	APIKey string `json:"api_key"`
}

// TokenResponse is the body of a successful POST /tokens response.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is the JSON representation of a session resource, used by
// every endpoint that returns session state.
type SessionResponse struct {
	ID      uuid.UUID `json:"id"`
	Created time.Time `json:"created"`
	History []string  `json:"history"`
}

func sessionResponseFrom(rec dao.Session) SessionResponse {
	return SessionResponse{ID: rec.ID, Created: rec.Created, History: rec.History}
}

// EvalRequest is the body of a POST /sessions/{id}/eval request.
type EvalRequest struct {
	Expression string `json:"expression"`
}

// EvalResponse is the body of a successful POST /sessions/{id}/eval
// response: the value the expression evaluated to, plus the session's
// updated state.
type EvalResponse struct {
	Result  interface{}     `json:"result"`
	Session SessionResponse `json:"session"`
}

// InfoResponse is the body of a GET /info response.
type InfoResponse struct {
	Version      string              `json:"version"`
	DefaultUnits map[string][]string `json:"default_units"`
}

// v must be a pointer to a type.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request")
	}

	return nil
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		res := textErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\n%s", panicErr, string(debug.Stack())),
		)
		res.writeResponse(w, req)
	}
}
