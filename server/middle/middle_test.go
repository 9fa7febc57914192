package middle_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/mathscript/server/middle"
)

func echoSubjectHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := middle.Subject(r.Context())
		if !ok {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("anonymous"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(subject))
	})
}

func verifyFixedToken(validToken, subject string) middle.Verifier {
	return func(tok string) (string, error) {
		if tok != validToken {
			return "", fmt.Errorf("bad token")
		}
		return subject, nil
	}
}

func Test_RequireAuth_MissingToken(t *testing.T) {
	h := middle.RequireAuth(verifyFixedToken("good", "alice"), 0)(echoSubjectHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Bearer realm="mashd"`, rec.Header().Get("WWW-Authenticate"))
}

func Test_RequireAuth_BadToken(t *testing.T) {
	h := middle.RequireAuth(verifyFixedToken("good", "alice"), 0)(echoSubjectHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_RequireAuth_GoodToken(t *testing.T) {
	h := middle.RequireAuth(verifyFixedToken("good", "alice"), 0)(echoSubjectHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func Test_OptionalAuth_MissingTokenStillServes(t *testing.T) {
	h := middle.OptionalAuth(verifyFixedToken("good", "alice"), 0)(echoSubjectHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func Test_DontPanic_RecoversAndReturns500(t *testing.T) {
	h := middle.DontPanic()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func Test_RequireAuth_DelaysOnFailure(t *testing.T) {
	delay := 20 * time.Millisecond
	h := middle.RequireAuth(verifyFixedToken("good", "alice"), delay)(echoSubjectHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	start := time.Now()
	h.ServeHTTP(rec, req)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, delay)
}
