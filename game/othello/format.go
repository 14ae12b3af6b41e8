package othello

import (
	"fmt"

	"github.com/gorgonia/reversi/game"
)

// Format prints the board with column letters on top and row numbers down the side.
// With the '+' flag (e.g. "%+v") the legal moves of the side to move are marked with '*'.
func (b Board) Format(s fmt.State, c rune) {
	var moves uint64
	if s.Flag('+') {
		moves = b.Moves()
	}
	fmt.Fprint(s, "  ")
	for x := 0; x < Size; x++ {
		fmt.Fprintf(s, "%c ", 'a'+x)
	}
	fmt.Fprint(s, "\n")
	for y := 0; y < Size; y++ {
		fmt.Fprintf(s, "%d ", y+1)
		for x := 0; x < Size; x++ {
			i := game.Single(x + Size*y)
			if moves&(uint64(1)<<uint(i)) != 0 {
				fmt.Fprint(s, "* ")
				continue
			}
			fmt.Fprintf(s, "%s ", b.At(i))
		}
		fmt.Fprint(s, "\n")
	}
	if c == 'v' {
		fmt.Fprintf(s, "Black: %d White: %d To move: %v\n", b.Count(Black), b.Count(White), b.Next)
	}
}
