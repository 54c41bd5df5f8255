package event

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Action is the code of the recorded action. Substitution codes are written
// by the substitution recorder only; everything else is free-form.
type Action string

const (
	ActionSubOut Action = "SUB_OUT"
	ActionSubIn  Action = "SUB_IN"
)

func (a Action) IsSubstitution() bool {
	return a == ActionSubOut || a == ActionSubIn
}

var matchTimePattern = regexp.MustCompile(`^\d{2,3}:[0-5]\d$`)

// ValidMatchTime reports whether v is an MM:SS clock value.
func ValidMatchTime(v string) bool {
	return matchTimePattern.MatchString(v)
}

// Event is one recorded action in a match.
type Event struct {
	ID               int64
	MatchID          int64
	TeamID           int64
	Subject          Subject
	Action           Action
	MatchTime        string
	PositionName     string
	OpponentPosition string
	Memo             string
	CreatedAt        time.Time
}

func (e Event) Validate() error {
	if e.MatchID <= 0 {
		return fmt.Errorf("event match id is required")
	}
	if e.TeamID <= 0 {
		return fmt.Errorf("event team id is required")
	}
	if strings.TrimSpace(string(e.Action)) == "" {
		return fmt.Errorf("event action is required")
	}
	if !ValidMatchTime(e.MatchTime) {
		return fmt.Errorf("invalid match time: %q", e.MatchTime)
	}
	if err := e.Subject.Validate(); err != nil {
		return err
	}
	if e.Action.IsSubstitution() && e.Subject.IsNone() {
		return fmt.Errorf("%s event needs a player or ghost token", e.Action)
	}

	return nil
}

// Patch is a partial event update. Subject, when set, replaces both the
// player id and the ghost token.
type Patch struct {
	Subject *Subject
	Memo    *string
}
