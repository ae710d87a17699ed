package store

import (
	"errors"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
)

// BeginDetection moves the detection state machine to Detecting. A
// second call while a request is pending restarts the state; there is
// no queue.
func (s *Store) BeginDetection() error {
	return s.set(FieldLocationDetecting, func(st *State) {
		st.LocationDetecting = true
		st.Detection = domain.DetectionDetecting
	})
}

// FinishDetection records the outcome of a geolocation request and
// returns the machine to Idle. A non-nil err marks the request Failed.
// On success a non-nil village becomes the selection; a nil village
// means no registry match and leaves the selection unchanged.
//
// Listeners observe the Resolved or Failed state before Idle.
func (s *Store) FinishDetection(v *domain.Village, err error) error {
	outcome := DetectionOutcome{At: s.now().UTC()}
	var selErr error
	if err != nil {
		outcome.State = domain.DetectionFailed
		outcome.Err = err.Error()
	} else {
		outcome.State = domain.DetectionResolved
		if v != nil {
			if selErr = s.SetSelectedVillage(v); selErr == nil {
				outcome.VillageID = v.ID
			}
		}
	}

	// The flag is cleared even when the selection could not be written.
	finishErr := s.set(FieldLocationDetecting, func(st *State) {
		st.LocationDetecting = false
		st.Detection = outcome.State
		st.LastDetection = outcome
	})
	idleErr := s.set(FieldLocationDetecting, func(st *State) {
		st.LocationDetecting = false
		st.Detection = domain.DetectionIdle
	})
	return errors.Join(selErr, finishErr, idleErr)
}
