package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
)

const maxBodyBytes = 1 << 16

// sessionID returns the caller's session, issuing a new cookie when
// the request has none or carries a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	st, err := s.prefs.Open(r.Context(), s.sessionID(w, r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreferencesView(st.Snapshot()))
}

type linkedAccountsPatch struct {
	Google *bool `json:"google"`
	Phone  *bool `json:"phone"`
}

type preferencesPatch struct {
	Language        *string              `json:"language"`
	Theme           *string              `json:"theme"`
	VillageID       *string              `json:"village_id"`
	Role            *string              `json:"role"`
	UserName        *string              `json:"user_name"`
	Authenticated   *bool                `json:"authenticated"`
	LinkedAccounts  *linkedAccountsPatch `json:"linked_accounts"`
	WhatsAppOptedIn *bool                `json:"whatsapp_opted_in"`
}

func (p preferencesPatch) update() service.PreferenceUpdate {
	u := service.PreferenceUpdate{
		Language:      p.Language,
		Theme:         p.Theme,
		VillageID:     p.VillageID,
		Role:          p.Role,
		UserName:      p.UserName,
		Authenticated: p.Authenticated,
		WhatsAppOptIn: p.WhatsAppOptedIn,
	}
	if p.LinkedAccounts != nil {
		u.Google = p.LinkedAccounts.Google
		u.Phone = p.LinkedAccounts.Phone
	}
	return u
}

func (s *Server) patchPreferences(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	var patch preferencesPatch
	if err := decodeBody(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.prefs.Update(r.Context(), id, patch.update())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreferencesView(st))
}

func (s *Server) resetPreferences(w http.ResponseWriter, r *http.Request) {
	st, err := s.prefs.Reset(r.Context(), s.sessionID(w, r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPreferencesView(st))
}

// detectRequest is what the browser reports from its geolocation
// callback: a position, or one of the platform error codes.
type detectRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

func (d detectRequest) source() (locate.PositionSource, error) {
	if d.Error != "" {
		err, ok := locate.FailureCodes[d.Error]
		if !ok {
			return nil, fmt.Errorf("%w: unknown error code %q", errBadRequest, d.Error)
		}
		return locate.FailingSource{Err: err}, nil
	}
	if d.Lat == nil || d.Lng == nil {
		return nil, fmt.Errorf("%w: lat and lng are required", errBadRequest)
	}
	return locate.StaticSource{Lat: *d.Lat, Lng: *d.Lng}, nil
}

type detectResponse struct {
	matchView
	Error       string          `json:"error,omitempty"`
	Preferences preferencesView `json:"preferences"`
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	var req detectRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	src, err := req.source()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.prefs.Detect(r.Context(), id, src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.prefs.Open(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap := st.Snapshot()
	resp := detectResponse{
		matchView:   newMatchView(out.Match, snap.Language),
		Preferences: newPreferencesView(snap),
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) liveVisitors(w http.ResponseWriter, _ *http.Request) {
	var n int
	if s.visitors != nil {
		n = s.visitors.Snapshot().LiveVisitors
	}
	writeJSON(w, http.StatusOK, map[string]int{"live_visitors": n})
}

