package http

import (
	"net/http"

	"github.com/prometheusfi/prometheus/pkg/apisdk"
	"github.com/prometheusfi/prometheus/pkg/httpx"
	"github.com/prometheusfi/prometheus/pkg/jwtx"
)

// JWKSHandler exposes the public keys other services use to verify access
// tokens.
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, apisdk.JWKSResponse(keys.PublicJWKS()))
	}
}
