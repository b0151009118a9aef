package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mkschou/pdareach/engine"
	"github.com/mkschou/pdareach/internal/format"
	"github.com/mkschou/pdareach/semiring"
)

// solveRequest is the POST /solve body: inline TOML text for the PDA
// and both P-automata, plus the same direction/trace choices the CLI
// exposes as flags — spec.md §1's "any verification front-end"
// collaborator, named out of scope for the core.
type solveRequest struct {
	PDA       string `json:"pda"`
	Initial   string `json:"initial"`
	Final     string `json:"final"`
	Direction int    `json:"direction"`
	Trace     string `json:"trace"`
}

type solveResponse struct {
	Reachable bool                     `json:"reachable"`
	Weight    int                      `json:"weight,omitempty"`
	Trace     []traceConfigurationJSON `json:"trace,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

type traceConfigurationJSON struct {
	State int      `json:"state"`
	Stack []string `json:"stack"`
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a minimal HTTP front end for solve",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			r := chi.NewRouter()
			r.Use(requestLogger(logger))
			r.Post("/solve", handleSolve(logger))

			logger.Infof("Listening on %s", addr)
			server := &http.Server{Addr: addr, Handler: r}
			go func() {
				<-cmd.Context().Done()
				server.Close()
			}()
			err := server.ListenAndServe()
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func requestLogger(logger logLike) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := uuid.New().String()
			logger.Infof("[%s] %s %s", id, req.Method, req.URL.Path)
			next.ServeHTTP(w, req)
		})
	}
}

// logLike is the subset of *charmlog.Logger requestLogger needs,
// narrowed so it doesn't have to import charmlog directly.
type logLike interface {
	Infof(format string, args ...any)
}

func handleSolve(logger logLike) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body solveRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeSolveError(w, http.StatusBadRequest, err)
			return
		}

		dir, ok := directions[body.Direction]
		if !ok {
			writeSolveError(w, http.StatusBadRequest, errDirection)
			return
		}
		mode, err := parseTraceMode(defaultTrace(body.Trace))
		if err != nil {
			writeSolveError(w, http.StatusBadRequest, err)
			return
		}

		alphabet := engine.NewAlphabet()
		p, err := format.ParsePDAString(body.PDA, alphabet)
		if err != nil {
			writeSolveError(w, http.StatusBadRequest, err)
			return
		}
		aInitial, err := format.ParsePAutomatonString(body.Initial, p, alphabet)
		if err != nil {
			writeSolveError(w, http.StatusBadRequest, err)
			return
		}
		aFinal, err := format.ParsePAutomatonString(body.Final, p, alphabet)
		if err != nil {
			writeSolveError(w, http.StatusBadRequest, err)
			return
		}

		result, err := engine.Solve(req.Context(), p, semiring.Int, aInitial, aFinal, dir, mode)
		if err != nil {
			writeSolveError(w, http.StatusInternalServerError, err)
			return
		}

		resp := solveResponse{Reachable: result.Reachable, Weight: result.Weight}
		for _, c := range result.Trace {
			stack := make([]string, len(c.Stack))
			for i, l := range c.Stack {
				name, err := alphabet.Name(l)
				if err != nil {
					continue
				}
				stack[i] = name
			}
			resp.Trace = append(resp.Trace, traceConfigurationJSON{State: c.State, Stack: stack})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

var errDirection = errors.New("direction must be 0-3")

func defaultTrace(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func writeSolveError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, solveResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
