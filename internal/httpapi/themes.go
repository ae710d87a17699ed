package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
)

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func (s *Server) dateParam(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return s.now(), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", errBadRequest)
	}
	return t, nil
}

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	lang, err := langParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	now, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	themes := domain.FestivalThemes()
	out := make([]themeView, len(themes))
	for i, t := range themes {
		out[i] = newThemeView(t, lang, now)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) currentTheme(w http.ResponseWriter, r *http.Request) {
	lang, err := langParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	now, err := s.dateParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v := newThemeView(domain.CurrentFestivalTheme(now), lang, now)
	v.Active = true
	writeJSON(w, http.StatusOK, v)
}
