package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/mathscript/server"
	"github.com/dekarrin/mathscript/session/dao/inmem"
)

const testAPIKey = "correct-horse-battery-staple"

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := server.Config{
		JWTSecret:    "test-secret",
		APIKeyHash:   string(hash),
		DefaultUnits: []string{"cm"},
	}

	api := server.New(cfg, inmem.NewDatastore())
	return api.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewBuffer(data)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func issueToken(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/tokens", "", map[string]string{"api_key": testAPIKey})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func Test_CreateToken_BadAPIKey(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/tokens", "", map[string]string{"api_key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_CreateToken_MissingAPIKey(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/tokens", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_CreateToken_GoodAPIKey(t *testing.T) {
	h := newTestAPI(t)

	tok := issueToken(t, h)
	assert.NotEmpty(t, tok)
}

func Test_Sessions_RequireAuth(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_Sessions_CreateGetEvalDelete(t *testing.T) {
	h := newTestAPI(t)
	tok := issueToken(t, h)

	createRec := doJSON(t, h, http.MethodPost, "/sessions", tok, nil)
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created struct {
		ID      string   `json:"id"`
		History []string `json:"history"`
	}
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.History)

	getRec := doJSON(t, h, http.MethodGet, "/sessions/"+created.ID, tok, nil)
	require.Equal(t, http.StatusOK, getRec.Code)

	evalRec := doJSON(t, h, http.MethodPost, "/sessions/"+created.ID+"/eval", tok, map[string]string{
		"expression": "1 + 2",
	})
	require.Equal(t, http.StatusOK, evalRec.Code)

	var evalResp struct {
		Result struct {
			Kind string  `json:"kind"`
			Num  float64 `json:"num"`
		} `json:"result"`
		Session struct {
			History []string `json:"history"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(evalRec.Body.Bytes(), &evalResp))
	assert.Equal(t, "number", evalResp.Result.Kind)
	assert.Equal(t, float64(3), evalResp.Result.Num)
	assert.Equal(t, []string{"1 + 2"}, evalResp.Session.History)

	deleteRec := doJSON(t, h, http.MethodDelete, "/sessions/"+created.ID, tok, nil)
	assert.Equal(t, http.StatusNoContent, deleteRec.Code)

	goneRec := doJSON(t, h, http.MethodGet, "/sessions/"+created.ID, tok, nil)
	assert.Equal(t, http.StatusNotFound, goneRec.Code)
}

func Test_EvalSession_BadExpression(t *testing.T) {
	h := newTestAPI(t)
	tok := issueToken(t, h)

	createRec := doJSON(t, h, http.MethodPost, "/sessions", tok, nil)
	require.Equal(t, http.StatusCreated, createRec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	evalRec := doJSON(t, h, http.MethodPost, "/sessions/"+created.ID+"/eval", tok, map[string]string{
		"expression": "1 +",
	})
	assert.Equal(t, http.StatusBadRequest, evalRec.Code)
}

func Test_GetSession_UnknownID(t *testing.T) {
	h := newTestAPI(t)
	tok := issueToken(t, h)

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/sessions/%s", "00000000-0000-0000-0000-000000000000"), tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_Info_DoesNotRequireAuth(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/info", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Version      string              `json:"version"`
		DefaultUnits map[string][]string `json:"default_units"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Version)
	assert.Contains(t, resp.DefaultUnits, "cm")
	assert.NotEmpty(t, resp.DefaultUnits["cm"])
}
