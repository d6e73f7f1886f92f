package entity

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const (
	OutcomeUnset Outcome = ""
	OutcomeWinX  Outcome = "X"
	OutcomeWinO  Outcome = "O"
	OutcomeTie   Outcome = "-"
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome is the terminal classification of a game. OutcomeUnset means the
// game goes on.
type Outcome string

// Winner returns the mark that won, or EmptyCell for a tie or an unset outcome.
func (that Outcome) Winner() Mark {
	switch that {
	case OutcomeWinX:
		return PlayerX
	case OutcomeWinO:
		return PlayerO
	default:
		return EmptyCell
	}
}

func (that Outcome) IsTerminal() bool {
	return that != OutcomeUnset
}

func WinOf(mark Mark) Outcome {
	return Outcome(mark)
}

// Game holds the board and the latched outcome. The zero value is an empty game.
type Game struct {
	Board   Board   `json:"board"`
	Outcome Outcome `json:"outcome"`
}

func NewGame() *Game {
	return &Game{}
}

func (that *Game) Reset() {
	that.Board = Board{}
	that.Outcome = OutcomeUnset
}

// ApplyMove puts mark into cell. The cell index must be in 0..8.
func (that *Game) ApplyMove(cell int, mark Mark) error {
	if that.Board[cell] != EmptyCell {
		return apperror.ErrInvalidMove
	}

	that.Board[cell] = mark

	return nil
}

func (that *Game) AvailableMoves() []int {
	return that.Board.AvailableMoves()
}

// CheckOutcome scans the board. Once a terminal result is found it is kept
// and returned by later calls until Reset.
func (that *Game) CheckOutcome() Outcome {
	if that.Outcome.IsTerminal() {
		return that.Outcome
	}

	that.Outcome = DetermineOutcome(that.Board)

	return that.Outcome
}

func (that *Game) IsFinished() bool {
	return that.Outcome.IsTerminal()
}

// Turn guesses whose move it is from the mark counts, X moving first.
func (that *Game) Turn() Mark {
	var x, o int
	for _, cell := range that.Board {
		switch cell {
		case PlayerX:
			x++
		case PlayerO:
			o++
		}
	}

	if x > o {
		return PlayerO
	}
	return PlayerX
}

// Render draws the board as three rows of cells joined by '|'.
func (that *Game) Render() string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := that.Board[row*3+col]
			if cell == EmptyCell {
				cells[col] = " "
			} else {
				cells[col] = string(cell)
			}
		}

		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')

	return sb.String()
}

func DetermineOutcome(board Board) Outcome {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return WinOf(a)
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == EmptyCell {
			return OutcomeUnset
		}
	}

	return OutcomeTie
}
