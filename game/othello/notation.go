package othello

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gorgonia/reversi/game"
)

// ParseSquare parses a square in algebraic notation ("a1" to "h8") or "pass".
// The letter is the column and the digit is the row, counted from the top left.
func ParseSquare(s string) (game.Single, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "pass" {
		return game.Pass, nil
	}
	if len(s) != 2 {
		return game.Pass, errors.Wrapf(ErrBadNotation, "%q", s)
	}
	x := int(s[0]) - 'a'
	y := int(s[1]) - '1'
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return game.Pass, errors.Wrapf(ErrBadNotation, "%q is off the board", s)
	}
	return game.Single(x + Size*y), nil
}

// SquareString is the inverse of ParseSquare.
func SquareString(m game.Single) string {
	if m.IsPass() {
		return "pass"
	}
	if m < 0 || m >= NumSquares {
		return "??"
	}
	return string([]byte{byte('a' + int(m)%Size), byte('1' + int(m)/Size)})
}

// Ltoi converts a coordinate into a square index.
func Ltoi(c game.Coord) game.Single {
	if c.IsPass() {
		return game.Pass
	}
	return game.Single(int(c.X) + Size*int(c.Y))
}

// Itol converts a square index into a coordinate.
func Itol(m game.Single) game.Coord {
	if m.IsPass() {
		return game.Coord{X: 255, Y: 255}
	}
	return game.Coord{X: int16(int(m) % Size), Y: int16(int(m) / Size)}
}

// ParseGame replays a game string such as "f5d6c3d3c4" from the starting position.
// Passes are not written down; when the side to move has to pass it is applied automatically.
func ParseGame(s string) (Board, []game.Single, error) {
	b := New()
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return b, nil, errors.Wrapf(ErrBadNotation, "game string %q has odd length", s)
	}
	moves := make([]game.Single, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		m, err := ParseSquare(s[i : i+2])
		if err != nil {
			return b, moves, errors.WithMessagef(err, "move %d", i/2+1)
		}
		if b.Classify() == Pass {
			b = b.Passed()
		}
		if m.IsPass() || !b.IsLegal(m) {
			return b, moves, errors.Wrapf(ErrIllegalMove, "move %d (%v) for %v", i/2+1, s[i:i+2], b.Next)
		}
		b = b.Apply(m)
		moves = append(moves, m)
	}
	return b, moves, nil
}

// GameString writes moves out in the notation read by ParseGame. Passes are skipped.
func GameString(moves []game.Single) string {
	var sb strings.Builder
	for _, m := range moves {
		if m.IsPass() {
			continue
		}
		sb.WriteString(SquareString(m))
	}
	return sb.String()
}
