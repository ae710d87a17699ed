package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
)

// langParam reads ?lang=, defaulting to the primary language.
func langParam(r *http.Request) (domain.Language, error) {
	v := r.URL.Query().Get("lang")
	if v == "" {
		return domain.DefaultLanguage, nil
	}
	lang, err := domain.ParseLanguage(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return lang, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, fmt.Errorf("%w: missing %s", errBadRequest, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
	}
	return f, nil
}

func (s *Server) listVillages(w http.ResponseWriter, r *http.Request) {
	lang, err := langParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	villages := s.villages.List(r.Context())
	out := make([]*villageView, len(villages))
	for i, v := range villages {
		out[i] = newVillageView(v, lang)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getVillage(w http.ResponseWriter, r *http.Request) {
	lang, err := langParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.villages.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVillageView(v, lang))
}

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	lang, err := langParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lat, err := floatParam(r, "lat")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lng, err := floatParam(r, "lng")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.villages.Locate(r.Context(), domain.Coordinate{Lat: lat, Lng: lng})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMatchView(m, lang))
}
