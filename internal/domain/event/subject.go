package event

import (
	"fmt"
	"strings"
)

type SubjectKind int

const (
	SubjectNone SubjectKind = iota
	SubjectPlayer
	SubjectGhost
)

// Subject identifies who an event is about: a known player, a ghost token
// standing in for a player not identified yet, or nobody (opponent events).
type Subject struct {
	kind     SubjectKind
	playerID int64
	token    string
}

func Player(playerID int64) Subject {
	return Subject{kind: SubjectPlayer, playerID: playerID}
}

func Ghost(token string) Subject {
	return Subject{kind: SubjectGhost, token: token}
}

func None() Subject {
	return Subject{}
}

// SubjectFromColumns rebuilds a subject from the nullable storage pair.
func SubjectFromColumns(playerID *int64, token *string) (Subject, error) {
	switch {
	case playerID != nil && token != nil:
		return Subject{}, fmt.Errorf("event has both player id %d and ghost token %q", *playerID, *token)
	case playerID != nil:
		return Player(*playerID), nil
	case token != nil:
		return Ghost(*token), nil
	default:
		return None(), nil
	}
}

func (s Subject) Kind() SubjectKind { return s.kind }

func (s Subject) PlayerID() (int64, bool) {
	return s.playerID, s.kind == SubjectPlayer
}

func (s Subject) Token() (string, bool) {
	return s.token, s.kind == SubjectGhost
}

func (s Subject) IsNone() bool { return s.kind == SubjectNone }

// Columns splits the subject into the nullable storage pair.
func (s Subject) Columns() (*int64, *string) {
	switch s.kind {
	case SubjectPlayer:
		id := s.playerID
		return &id, nil
	case SubjectGhost:
		token := s.token
		return nil, &token
	default:
		return nil, nil
	}
}

func (s Subject) Validate() error {
	switch s.kind {
	case SubjectPlayer:
		if s.playerID <= 0 {
			return fmt.Errorf("invalid subject player id: %d", s.playerID)
		}
	case SubjectGhost:
		if strings.TrimSpace(s.token) == "" {
			return fmt.Errorf("ghost token is required")
		}
	}
	return nil
}

func (s Subject) String() string {
	switch s.kind {
	case SubjectPlayer:
		return fmt.Sprintf("player(%d)", s.playerID)
	case SubjectGhost:
		return fmt.Sprintf("ghost(%s)", s.token)
	default:
		return "none"
	}
}
