package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

// errBadRequest marks malformed input caught in the handlers themselves.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: status})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrVillageNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidPreference),
		errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, geo.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrReentrantSet):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err with its mapped status. Server errors are logged and
// their detail withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
