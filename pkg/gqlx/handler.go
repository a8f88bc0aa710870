package gqlx

import (
	"encoding/json"
	"net/http"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/prometheusfi/prometheus/pkg/httpx"
)

const maxBodyBytes = 1 << 20

// ServeHTTP accepts a POST with a JSON Request body. Execution errors are
// reported in the body with status 200; only undecodable requests get 400.
func (s *Schema) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httpx.WriteJSON(w, http.StatusMethodNotAllowed, &Response{
			Errors: gqlerror.List{gqlerror.Errorf("GraphQL requests must use POST")},
		})
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, &Response{
			Errors: gqlerror.List{gqlerror.Errorf("request body is not a valid GraphQL request")},
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, s.Execute(r.Context(), req))
}

// SDLHandler serves the schema source as text.
func (s *Schema) SDLHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteCacheable(w, r, "text/plain; charset=utf-8", []byte(s.sdl))
	})
}
