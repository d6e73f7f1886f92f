package entity

import (
	"errors"
	"fmt"
	"strings"
)

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""

	BoardSize = 9
)

// emptyCellText is how an empty cell is spelled in the text form of a board.
const emptyCellText = '-'

var ErrInvalidBoardText = errors.New("invalid board text")

// Mark is the content of a single cell.
type Mark string

// ParseMark accepts "x" or "o" in any case.
func ParseMark(s string) (Mark, bool) {
	switch Mark(strings.ToUpper(strings.TrimSpace(s))) {
	case PlayerX:
		return PlayerX, true
	case PlayerO:
		return PlayerO, true
	default:
		return EmptyCell, false
	}
}

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Board is a 3x3 grid in row-major order. It is comparable, so a Board can be
// used as is for a map key.
type Board [BoardSize]Mark

// MarshalText encodes the board as 9 characters: X, O or '-' for empty cells.
func (that Board) MarshalText() ([]byte, error) {
	text := make([]byte, BoardSize)
	for i, cell := range that {
		switch cell {
		case PlayerX, PlayerO:
			text[i] = cell[0]
		case EmptyCell:
			text[i] = emptyCellText
		default:
			return nil, fmt.Errorf("%w: cell %d holds %q", ErrInvalidBoardText, i, cell)
		}
	}

	return text, nil
}

func (that *Board) UnmarshalText(text []byte) error {
	if len(text) != BoardSize {
		return fmt.Errorf("%w: %q", ErrInvalidBoardText, text)
	}

	var board Board
	for i, c := range text {
		switch c {
		case 'X', 'x':
			board[i] = PlayerX
		case 'O', 'o':
			board[i] = PlayerO
		case emptyCellText, ' ':
			board[i] = EmptyCell
		default:
			return fmt.Errorf("%w: %q", ErrInvalidBoardText, text)
		}
	}

	*that = board

	return nil
}

func (that Board) String() string {
	text, err := that.MarshalText()
	if err != nil {
		return fmt.Sprintf("%q", [BoardSize]Mark(that))
	}
	return string(text)
}

// AvailableMoves returns the indices of empty cells in ascending order.
func (that Board) AvailableMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}
