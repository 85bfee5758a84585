package tray

import (
	"time"

	"github.com/google/uuid"
)

// Session is one throw of a set of instances.
type Session struct {
	ID         uuid.UUID
	LaunchedAt time.Time

	members  []ID
	resolved bool
	results  []Result
}

// Members returns the instances still waiting on this session, in launch
// order.
func (s *Session) Members() []ID {
	return append([]ID(nil), s.members...)
}

// Resolved reports whether the session has settled.
func (s *Session) Resolved() bool { return s.resolved }

// Results returns the settled values, or nil while the session is pending.
func (s *Session) Results() []Result {
	return append([]Result(nil), s.results...)
}

func (s *Session) drop(id ID) bool {
	for i, m := range s.members {
		if m == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return true
		}
	}
	return false
}
