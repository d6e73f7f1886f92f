package apperror

import "errors"

var (
	ErrInvalidMove  = errors.New("cell is already occupied")
	ErrNoValidMoves = errors.New("no valid moves left on the board")
	ErrLoadTable    = errors.New("could not load agent table")

	ErrInvalidSymbol = errors.New("invalid symbol, choose either X or O")
	ErrAgentNotFound = errors.New("agent not found")
	ErrNoAgents      = errors.New("no agents loaded")
	ErrSameAgent     = errors.New("you must choose two different agents")
	ErrSameSymbol    = errors.New("agents must play different symbols")
)
