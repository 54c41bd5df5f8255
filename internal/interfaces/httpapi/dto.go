package httpapi

import (
	"strconv"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/bench"
	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/formation"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/player"
	"github.com/watter46/footics-sub000/internal/usecase"
)

type slotDTO struct {
	ID       int     `json:"id"`
	Position string  `json:"position"`
	Group    string  `json:"group"`
	Top      float64 `json:"top"`
	Left     float64 `json:"left"`
}

type formationDTO struct {
	Shape string    `json:"shape"`
	Slots []slotDTO `json:"slots"`
}

type occupantDTO struct {
	SlotID   int    `json:"slot_id"`
	Position string `json:"position"`
	Kind     string `json:"kind"`
	PlayerID *int64 `json:"player_id,omitempty"`
	Token    string `json:"token,omitempty"`
}

type matchDTO struct {
	ID                      int64             `json:"id"`
	Date                    time.Time         `json:"date"`
	Team1ID                 int64             `json:"team1_id"`
	Team2ID                 int64             `json:"team2_id"`
	SubjectTeamID           int64             `json:"subject_team_id"`
	CurrentFormation        *string           `json:"current_formation"`
	AssignedPlayers         map[string]int64  `json:"assigned_players"`
	SubstitutedOutPlayerIDs []int64           `json:"substituted_out_player_ids"`
	PendingGhosts           map[string]string `json:"pending_ghosts"`
	Slots                   []occupantDTO     `json:"slots,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

type eventDTO struct {
	ID               int64     `json:"id"`
	MatchID          int64     `json:"match_id"`
	TeamID           int64     `json:"team_id"`
	PlayerID         *int64    `json:"player_id"`
	TempSlotID       *string   `json:"temp_slot_id"`
	Action           string    `json:"action"`
	MatchTime        string    `json:"match_time"`
	PositionName     string    `json:"position_name,omitempty"`
	OpponentPosition string    `json:"opponent_position,omitempty"`
	Memo             string    `json:"memo,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type mutationDTO struct {
	Changed bool       `json:"changed"`
	Events  []eventDTO `json:"events"`
	Match   matchDTO   `json:"match"`
}

type migrationDTO struct {
	Dropped []int64  `json:"dropped_player_ids"`
	Match   matchDTO `json:"match"`
}

type playerDTO struct {
	ID       int64  `json:"id"`
	TeamID   int64  `json:"team_id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

type benchedOutDTO struct {
	Player     playerDTO `json:"player"`
	OutEventID *int64    `json:"out_event_id"`
}

type unresolvedDTO struct {
	Token      string  `json:"token"`
	EventCount int     `json:"event_count"`
	EventIDs   []int64 `json:"event_ids"`
}

type benchDTO struct {
	Available  []playerDTO     `json:"available"`
	BenchedOut []benchedOutDTO `json:"benched_out"`
	Unresolved []unresolvedDTO `json:"unresolved"`
}

func formationToDTO(shape string, slots formation.Slots) formationDTO {
	out := formationDTO{Shape: shape, Slots: make([]slotDTO, 0, len(slots))}
	for _, s := range slots {
		out.Slots = append(out.Slots, slotDTO{
			ID:       s.ID,
			Position: s.Position,
			Group:    string(s.Group),
			Top:      s.Top,
			Left:     s.Left,
		})
	}
	return out
}

func occupantToDTO(slot formation.Slot, occupant lineup.Occupant) occupantDTO {
	out := occupantDTO{SlotID: slot.ID, Position: slot.Position, Kind: occupant.Kind().String()}
	if playerID, ok := occupant.PlayerID(); ok {
		out.PlayerID = &playerID
	}
	if token, ok := occupant.Token(); ok {
		out.Token = token
	}
	return out
}

func matchToDTO(m match.Match) matchDTO {
	out := matchDTO{
		ID:                      m.ID,
		Date:                    m.Date,
		Team1ID:                 m.Team1ID,
		Team2ID:                 m.Team2ID,
		SubjectTeamID:           m.SubjectTeamID,
		SubstitutedOutPlayerIDs: append([]int64{}, m.SubstitutedOutPlayerIDs...),
		PendingGhosts:           make(map[string]string, len(m.PendingGhosts)),
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.CurrentFormation != "" {
		shape := m.CurrentFormation
		out.CurrentFormation = &shape
	}
	if m.AssignedPlayers != nil {
		out.AssignedPlayers = make(map[string]int64, len(m.AssignedPlayers))
		for slotID, playerID := range m.AssignedPlayers {
			out.AssignedPlayers[strconv.Itoa(slotID)] = playerID
		}
	}
	for slotID, token := range m.PendingGhosts {
		out.PendingGhosts[strconv.Itoa(slotID)] = token
	}
	return out
}

// matchWithSlotsToDTO adds the occupant of every slot of the current shape.
func matchWithSlotsToDTO(m match.Match, catalog formation.Catalog) matchDTO {
	out := matchToDTO(m)
	slots, ok := catalog.Lookup(m.CurrentFormation)
	if !ok {
		return out
	}
	out.Slots = make([]occupantDTO, 0, len(slots))
	for _, slot := range slots {
		out.Slots = append(out.Slots, occupantToDTO(slot, m.Occupant(slot.ID)))
	}
	return out
}

func eventToDTO(e event.Event) eventDTO {
	playerID, token := e.Subject.Columns()
	return eventDTO{
		ID:               e.ID,
		MatchID:          e.MatchID,
		TeamID:           e.TeamID,
		PlayerID:         playerID,
		TempSlotID:       token,
		Action:           string(e.Action),
		MatchTime:        e.MatchTime,
		PositionName:     e.PositionName,
		OpponentPosition: e.OpponentPosition,
		Memo:             e.Memo,
		CreatedAt:        e.CreatedAt,
	}
}

func eventsToDTO(items []event.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventToDTO(item))
	}
	return out
}

func mutationToDTO(res usecase.MutationResult, catalog formation.Catalog) mutationDTO {
	return mutationDTO{
		Changed: res.Changed,
		Events:  eventsToDTO(res.Events),
		Match:   matchWithSlotsToDTO(res.Match, catalog),
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		TeamID:   p.TeamID,
		Name:     p.Name,
		Number:   p.Number,
		Position: p.Position,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func benchToDTO(p bench.Projection) benchDTO {
	out := benchDTO{
		Available:  playersToDTO(p.Available),
		BenchedOut: make([]benchedOutDTO, 0, len(p.BenchedOut)),
		Unresolved: make([]unresolvedDTO, 0, len(p.Unresolved)),
	}
	for _, item := range p.BenchedOut {
		entry := benchedOutDTO{Player: playerToDTO(item.Player)}
		if item.OutEventID > 0 {
			eventID := item.OutEventID
			entry.OutEventID = &eventID
		}
		out.BenchedOut = append(out.BenchedOut, entry)
	}
	for _, item := range p.Unresolved {
		out.Unresolved = append(out.Unresolved, unresolvedDTO{
			Token:      item.Token,
			EventCount: item.EventCount,
			EventIDs:   append([]int64{}, item.EventIDs...),
		})
	}
	return out
}
