package poller

import "errors"

// State is the phase of a screen's data.
type State int

const (
	Loading State = iota
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned for a transition the state machine forbids.
var ErrInvalidTransition = errors.New("invalid screen transition")

// Screen tracks one screen through Loading, Ready and Error. A screen starts
// in Loading; only a loading screen can settle, and only a settled screen can
// reload.
type Screen struct {
	state State
	err   error
}

// State returns the current phase.
func (s *Screen) State() State { return s.state }

// Err returns the failure of the last load when the screen is in Error.
func (s *Screen) Err() error { return s.err }

// Reload moves a settled screen back to Loading.
func (s *Screen) Reload() error {
	if s.state == Loading {
		return ErrInvalidTransition
	}
	s.state, s.err = Loading, nil
	return nil
}

// Succeed settles a loading screen as Ready.
func (s *Screen) Succeed() error {
	if s.state != Loading {
		return ErrInvalidTransition
	}
	s.state = Ready
	return nil
}

// Fail settles a loading screen as Error.
func (s *Screen) Fail(err error) error {
	if s.state != Loading {
		return ErrInvalidTransition
	}
	s.state, s.err = Error, err
	return nil
}
