package othello

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gorgonia/reversi/game"
)

var (
	// ErrIllegalMove is returned when a move is not one of the legal moves of the side to move.
	ErrIllegalMove = errors.New("illegal move")

	// ErrBadNotation is returned when a square or game string cannot be parsed.
	ErrBadNotation = errors.New("bad notation")
)

type moveError game.PlayerMove

func (err moveError) Error() string {
	return fmt.Sprintf("Unable to make %v: %v", game.PlayerMove(err), ErrIllegalMove)
}

// Cause returns ErrIllegalMove so errors.Cause can be compared against the sentinel.
func (err moveError) Cause() error { return ErrIllegalMove }
