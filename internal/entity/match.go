package entity

import "time"

const (
	ModeAgents = "agents"
	ModeHuman  = "human"
)

// Participant is one side of a finished match.
type Participant struct {
	Name string `json:"name"`
	Mark Mark   `json:"mark"`
}

// Match is the record kept for every finished game.
type Match struct {
	ID         string        `json:"id"`
	Mode       string        `json:"mode"`
	Players    []Participant `json:"players"`
	Moves      []int         `json:"moves"`
	Board      Board         `json:"board"`
	Outcome    Outcome       `json:"outcome"`
	FinishedAt time.Time     `json:"finished_at"`
}

// WinnerName returns the name of the winning participant, or "" on a tie.
func (that *Match) WinnerName() string {
	winner := that.Outcome.Winner()
	if winner == EmptyCell {
		return ""
	}

	for _, p := range that.Players {
		if p.Mark == winner {
			return p.Name
		}
	}

	return ""
}

// Standing is the win/loss/tie tally of one agent.
type Standing struct {
	Agent  string `json:"agent"`
	Wins   int64  `json:"wins"`
	Losses int64  `json:"losses"`
	Ties   int64  `json:"ties"`
}

func (that Standing) Played() int64 {
	return that.Wins + that.Losses + that.Ties
}
