package othello

import (
	"math/bits"

	"github.com/gorgonia/reversi/game"
)

const (
	Size       = 8
	NumSquares = Size * Size

	full     uint64 = 0xFFFFFFFFFFFFFFFF
	notAFile uint64 = 0xFEFEFEFEFEFEFEFE // clears column a after a shift that moved east
	notHFile uint64 = 0x7F7F7F7F7F7F7F7F // clears column h after a shift that moved west

	startBlack uint64 = 0x0000000810000000 // e4, d5
	startWhite uint64 = 0x0000001008000000 // d4, e5
)

var (
	Black = game.Player(game.Black)
	White = game.Player(game.White)
)

// Status is the classification of a position from the point of view of the side to move.
type Status int

const (
	Continue Status = iota
	Pass
	GameOver
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "Continue"
	case Pass:
		return "Pass"
	case GameOver:
		return "GameOver"
	}
	return "UNKNOWN STATUS"
}

// direction is a compass step expressed as a shift over the bitboard.
// The mask removes the bits that wrapped around a row edge.
type direction struct {
	shift int
	mask  uint64
}

func (d direction) step(b uint64) uint64 {
	if d.shift > 0 {
		return (b << uint(d.shift)) & d.mask
	}
	return (b >> uint(-d.shift)) & d.mask
}

// N, NE, E, SE, S, SW, W, NW
var directions = [8]direction{
	{-8, full},
	{-7, notAFile},
	{1, notAFile},
	{9, notAFile},
	{8, full},
	{7, notHFile},
	{-1, notHFile},
	{-9, notHFile},
}

// Board is an Othello position: one bitboard per side and the side to move.
// Bit i is the square x + 8*y, with square 0 being a1 in the top left corner.
//
// Board is a value. Every operation returns a new Board and leaves the receiver untouched.
type Board struct {
	Black, White uint64
	Next         game.Player
}

// New returns the standard starting position with Black to move.
func New() Board {
	return Board{
		Black: startBlack,
		White: startWhite,
		Next:  Black,
	}
}

// pieces returns the bitboards of the side to move and its opponent.
func (b Board) pieces() (own, opp uint64) {
	if b.Next == White {
		return b.White, b.Black
	}
	return b.Black, b.White
}

// Occupied returns the set of squares that hold a disc.
func (b Board) Occupied() uint64 { return b.Black | b.White }

// Full returns true when no empty square is left.
func (b Board) Full() bool { return b.Occupied() == full }

// Empty returns the number of empty squares.
func (b Board) Empty() int { return NumSquares - bits.OnesCount64(b.Occupied()) }

// Count returns the number of discs of the given side.
func (b Board) Count(p game.Player) int {
	switch p {
	case Black:
		return bits.OnesCount64(b.Black)
	case White:
		return bits.OnesCount64(b.White)
	}
	return 0
}

// At returns the colour of the disc on square i.
func (b Board) At(i game.Single) game.Colour {
	if i < 0 || i >= NumSquares {
		return game.None
	}
	sq := uint64(1) << uint(i)
	switch {
	case b.Black&sq != 0:
		return game.Black
	case b.White&sq != 0:
		return game.White
	}
	return game.None
}

// flipsFrom returns the opposing run that a disc on sq would flip in direction d.
// The run must be closed off by one of own; otherwise nothing flips.
func flipsFrom(own, opp, sq uint64, d direction) uint64 {
	var run uint64
	cur := d.step(sq)
	for cur&opp != 0 {
		run |= cur
		cur = d.step(cur)
	}
	if cur&own != 0 {
		return run
	}
	return 0
}

// Flips returns every disc that playing m would turn over for the side to move.
func (b Board) Flips(m game.Single) uint64 {
	if m.IsPass() || m < 0 || m >= NumSquares {
		return 0
	}
	own, opp := b.pieces()
	sq := uint64(1) << uint(m)
	if (own|opp)&sq != 0 {
		return 0
	}
	var flips uint64
	for _, d := range directions {
		flips |= flipsFrom(own, opp, sq, d)
	}
	return flips
}

// LegalMoves lists the legal moves of the side to move in row-major order.
// A square is listed once, no matter how many directions it flips in.
func (b Board) LegalMoves() []game.Single {
	own, opp := b.pieces()
	empty := ^(own | opp)
	var retVal []game.Single
	for i := 0; i < NumSquares; i++ {
		sq := uint64(1) << uint(i)
		if empty&sq == 0 {
			continue
		}
		for _, d := range directions {
			if flipsFrom(own, opp, sq, d) != 0 {
				retVal = append(retVal, game.Single(i))
				break
			}
		}
	}
	return retVal
}

// Moves returns the legal moves of the side to move as a bitmask.
func (b Board) Moves() uint64 {
	own, opp := b.pieces()
	empty := ^(own | opp)
	var moves uint64
	for _, d := range directions {
		x := d.step(own) & opp
		// a run is at most 6 discs long on an 8 wide board
		for i := 0; i < 5; i++ {
			x |= d.step(x) & opp
		}
		moves |= d.step(x) & empty
	}
	return moves
}

// IsLegal returns true if m is a legal move for the side to move.
// A pass is only legal when the side to move has nothing else to play and the game is not over.
func (b Board) IsLegal(m game.Single) bool {
	if m.IsPass() {
		return b.Classify() == Pass
	}
	if m < 0 || m >= NumSquares {
		return false
	}
	return b.Moves()&(uint64(1)<<uint(m)) != 0
}

// Apply plays m for the side to move and hands the turn over.
//
// m must be one of LegalMoves() (or Pass). The move is not checked again.
func (b Board) Apply(m game.Single) Board {
	if m.IsPass() {
		return b.Passed()
	}
	flips := b.Flips(m)
	sq := uint64(1) << uint(m)
	if b.Next == White {
		b.White |= sq | flips
		b.Black &^= flips
	} else {
		b.Black |= sq | flips
		b.White &^= flips
	}
	b.Next = b.Next.Opponent()
	return b
}

// Passed returns the same position with the other side to move.
func (b Board) Passed() Board {
	b.Next = b.Next.Opponent()
	return b
}

// Classify reports whether the side to move can play, has to pass, or whether the game is over.
//
// A Pass result does not change whose turn it is. The caller has to call Passed().
func (b Board) Classify() Status {
	if b.Full() {
		return GameOver
	}
	if b.Moves() != 0 {
		return Continue
	}
	if b.Passed().Moves() != 0 {
		return Pass
	}
	return GameOver
}

// Winner returns the side with more discs, or None on a tie.
func (b Board) Winner() game.Player {
	black, white := b.Count(Black), b.Count(White)
	switch {
	case black > white:
		return Black
	case white > black:
		return White
	}
	return game.Player(game.None)
}
