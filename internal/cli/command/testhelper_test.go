package command

import (
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// mockServer creates a test HTTP server with custom handlers.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

// newMockServer creates a new mock server.
func newMockServer() *mockServer {
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		if handler, ok := m.handlers[key]; ok {
			handler(w, r)
			return
		}
		// Fall back to path prefix match
		for pattern, handler := range m.handlers {
			if strings.HasPrefix(r.URL.Path, pattern) {
				handler(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	return m
}

// handle registers a handler for "METHOD /path" or a path prefix.
func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.handlers[pattern] = handler
}

// decodeJSONBody decodes a request body into out.
func decodeJSONBody(r *http.Request, out any) {
	json.NewDecoder(r.Body).Decode(out)
}

// envelopeResponse writes data wrapped in the server's JSON envelope.
func envelopeResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":      "OK",
		"message":   "Success",
		"timestamp": time.Now().UnixMilli(),
		"data":      data,
	})
}

// errorResponse writes an error envelope.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
	})
}

// makeContext builds a CLI context with global flags plus the given
// command flags, parsing cliArgs. Positional arguments follow flags.
func makeContext(extraFlags []cli.Flag, cliArgs []string) *cli.Context {
	app := &cli.App{
		Name:  "test",
		Flags: globalFlags(),
	}

	allFlags := append([]cli.Flag{}, globalFlags()...)
	allFlags = append(allFlags, extraFlags...)

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	seen := make(map[string]bool)
	for _, f := range allFlags {
		if seen[f.Names()[0]] {
			continue
		}
		seen[f.Names()[0]] = true
		f.Apply(set)
	}
	set.Parse(cliArgs)

	return cli.NewContext(app, set, nil)
}

// serverContext builds a context pointed at the mock server.
func serverContext(server *mockServer, extraFlags []cli.Flag, args ...string) *cli.Context {
	cliArgs := append([]string{"--server", server.URL}, args...)
	return makeContext(extraFlags, cliArgs)
}
