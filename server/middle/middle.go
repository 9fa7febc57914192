// Package middle contains middleware for use with the mathscript server.
package middle

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthSubject
)

// Verifier checks a bearer token and returns the subject (an opaque client
// identifier) it was issued for. This server has no user database to look
// the subject up against (unlike the teacher's token.Validate, which
// resolves a dao.User), so verification is reduced to this one function
// supplied by the caller.
type Verifier func(tok string) (subject string, err error)

// AuthHandler is middleware that accepts a request, extracts the bearer
// token, and calls a Verifier to resolve it to a subject. Keys are added to
// the request context before the request is passed to the next step in the
// chain: AuthSubject holds the resolved subject and AuthLoggedIn whether one
// was found (only meaningful for optional auth; for required auth, the
// absence of one terminates the request before it reaches the next
// handler).
type AuthHandler struct {
	verify        Verifier
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var subject string

	tok, err := getBearerToken(req)
	if err != nil {
		// deliberately leaving as embedded if instead of &&
		if ah.required {
			time.Sleep(ah.unauthedDelay)
			writeUnauthorized(w, req, err.Error())
			return
		}
	} else {
		subject, err = ah.verify(tok)
		if err != nil {
			// deliberately leaving as embedded if instead of &&
			if ah.required {
				time.Sleep(ah.unauthedDelay)
				writeUnauthorized(w, req, err.Error())
				return
			}
		} else {
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthSubject, subject)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// Subject returns the subject stored in ctx by an AuthHandler and whether
// one was present.
func Subject(ctx context.Context) (string, bool) {
	loggedIn, _ := ctx.Value(AuthLoggedIn).(bool)
	if !loggedIn {
		return "", false
	}
	subject, _ := ctx.Value(AuthSubject).(string)
	return subject, subject != ""
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 || strings.ToLower(authParts[0]) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(authParts[1]), nil
}

func RequireAuth(verify Verifier, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{verify: verify, unauthedDelay: unauthDelay, required: true, next: next}
	}
}

func OptionalAuth(verify Verifier, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{verify: verify, unauthedDelay: unauthDelay, required: false, next: next}
	}
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the function is panicking, it will write out an HTTP response with a
// generic message to the client and add it to the log.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		logResponse("ERROR", req, http.StatusInternalServerError, fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())))
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return true
	}
	return false
}

// writeUnauthorized writes a minimal HTTP-401 response. middle cannot import
// package server's EndpointResult (server imports middle), so this is a
// deliberately small standalone writer rather than a shared one.
func writeUnauthorized(w http.ResponseWriter, req *http.Request, internalMsg string) {
	logResponse("ERROR", req, http.StatusUnauthorized, internalMsg)
	w.Header().Set("WWW-Authenticate", `Bearer realm="mashd"`)
	http.Error(w, "You are not authorized to do that", http.StatusUnauthorized)
}

func logResponse(level string, req *http.Request, status int, msg string) {
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	log.Printf("%-5s %s %s %s: HTTP-%d %s", level, remoteAddrParts[0], req.Method, req.URL.Path, status, msg)
}
