package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/medlink/portal-server-go/internal/errors"
	"github.com/medlink/portal-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("request body", "must be valid JSON")
	}
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
}
