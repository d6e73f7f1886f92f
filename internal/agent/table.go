package agent

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Table maps an exact board configuration to one preference score per cell.
// Vectors are expected to hold entity.BoardSize entries; nothing checks it.
type Table map[entity.Board][]float64

// wireTable is the gob payload: boards are keyed by their text form.
type wireTable struct {
	Scores map[string][]float64
}

// DecodeTable reads a table blob written by EncodeTable.
func DecodeTable(r io.Reader) (Table, error) {
	var wire wireTable
	if err := gob.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}

	table := make(Table, len(wire.Scores))
	for key, scores := range wire.Scores {
		var board entity.Board
		if err := board.UnmarshalText([]byte(key)); err != nil {
			return nil, fmt.Errorf("failed to decode table key: %w", err)
		}

		table[board] = scores
	}

	return table, nil
}

func EncodeTable(w io.Writer, table Table) error {
	wire := wireTable{Scores: make(map[string][]float64, len(table))}
	for board, scores := range table {
		key, err := board.MarshalText()
		if err != nil {
			return fmt.Errorf("failed to encode table key: %w", err)
		}

		wire.Scores[string(key)] = scores
	}

	if err := gob.NewEncoder(w).Encode(wire); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}

	return nil
}
