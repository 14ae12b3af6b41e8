package othello

import (
	"fmt"
	"sync"

	"github.com/gorgonia/reversi/game"
)

var _ game.State = &Game{}

// Game is a stateful Othello game. It keeps the move history so moves can be undone.
// The embedded mutex guards every method, so a Game may be shared between goroutines.
type Game struct {
	sync.Mutex
	board Board

	history    []game.PlayerMove
	historical []Board
	histPtr    int
}

// NewGame creates a game at the starting position.
func NewGame() *Game {
	return &Game{
		board:      New(),
		history:    make([]game.PlayerMove, 0, NumSquares),
		historical: make([]Board, 0, NumSquares),
	}
}

// FromBoard creates a game that starts at the given position.
func FromBoard(b Board) *Game {
	g := NewGame()
	g.board = b
	return g
}

func (g *Game) Format(s fmt.State, c rune) {
	b := g.Position()
	switch c {
	case 's':
		fmt.Fprintf(s, "%s", b)
	default:
		fmt.Fprintf(s, "%+v", b)
	}
}

// Position returns the current bitboard position.
func (g *Game) Position() Board {
	g.Lock()
	defer g.Unlock()
	return g.board
}

func (g *Game) BoardSize() (int, int) { return Size, Size }

func (g *Game) Board() []game.Colour {
	b := g.Position()
	retVal := make([]game.Colour, NumSquares)
	for i := range retVal {
		retVal[i] = b.At(game.Single(i))
	}
	return retVal
}

// ActionSpace is every square plus the pass.
func (g *Game) ActionSpace() int { return NumSquares + 1 }

func (g *Game) ToMove() game.Player { return g.Position().Next }

func (g *Game) SetToMove(p game.Player) { g.Lock(); g.board.Next = p; g.Unlock() }

func (g *Game) LastMove() game.PlayerMove {
	g.Lock()
	defer g.Unlock()
	if g.histPtr > 0 {
		return g.history[g.histPtr-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Single: game.Pass}
}

// Passes counts the passes at the end of the move history.
func (g *Game) Passes() int {
	g.Lock()
	defer g.Unlock()
	var count int
	for i := g.histPtr - 1; i >= 0; i-- {
		if !g.history[i].Single.IsPass() {
			break
		}
		count++
	}
	return count
}

func (g *Game) MoveNumber() int {
	g.Lock()
	defer g.Unlock()
	return g.histPtr
}

// Moves returns the moves played so far, passes included.
func (g *Game) Moves() []game.Single {
	g.Lock()
	defer g.Unlock()
	retVal := make([]game.Single, g.histPtr)
	for i := range retVal {
		retVal[i] = g.history[i].Single
	}
	return retVal
}

// History returns the moves played so far together with who played them.
func (g *Game) History() []game.PlayerMove {
	g.Lock()
	defer g.Unlock()
	retVal := make([]game.PlayerMove, g.histPtr)
	copy(retVal, g.history)
	return retVal
}

// Check returns true if m is legal. The player has to be the side to move.
func (g *Game) Check(m game.PlayerMove) bool {
	g.Lock()
	defer g.Unlock()
	return g.check(m)
}

func (g *Game) check(m game.PlayerMove) bool {
	if m.Player != g.board.Next {
		return false
	}
	return g.board.IsLegal(m.Single)
}

// Apply plays the move. An illegal move leaves the game unchanged.
func (g *Game) Apply(m game.PlayerMove) game.State {
	g.Lock()
	defer g.Unlock()
	if !g.check(m) {
		return g // no change to the state
	}
	g.apply(m)
	return g
}

// Play is Apply with an error for illegal moves.
func (g *Game) Play(m game.Single) error {
	g.Lock()
	defer g.Unlock()
	pm := game.PlayerMove{Player: g.board.Next, Single: m}
	if !g.check(pm) {
		return moveError(pm)
	}
	g.apply(pm)
	return nil
}

// apply expects the lock to be held.
func (g *Game) apply(m game.PlayerMove) {
	g.historical = append(g.historical[:g.histPtr], g.board)
	g.board = g.board.Apply(m.Single)
	g.history = append(g.history[:g.histPtr], m)
	g.histPtr++
}

// Score is the disc count of p.
func (g *Game) Score(p game.Player) float32 { return float32(g.Position().Count(p)) }

// Ended checks if the game has ended. If it has, who is the winner?
func (g *Game) Ended() (ended bool, winner game.Player) {
	b := g.Position()
	if b.Classify() != GameOver {
		return false, game.Player(game.None)
	}
	return true, b.Winner()
}

func (g *Game) Reset() {
	g.Lock()
	g.board = New()
	g.history = g.history[:0]
	g.historical = g.historical[:0]
	g.histPtr = 0
	g.Unlock()
}

func (g *Game) UndoLastMove() {
	g.Lock()
	defer g.Unlock()
	if g.histPtr == 0 {
		return
	}
	g.histPtr--
	g.board = g.historical[g.histPtr]
	g.history = g.history[:g.histPtr]
	g.historical = g.historical[:g.histPtr]
}

func (g *Game) Eq(other game.State) bool {
	ot, ok := other.(*Game)
	if !ok {
		return false
	}
	if ot == g {
		return true
	}
	return g.Position() == ot.Position()
}

func (g *Game) Clone() game.State {
	g.Lock()
	defer g.Unlock()
	retVal := &Game{
		board:      g.board,
		history:    make([]game.PlayerMove, len(g.history), cap(g.history)),
		historical: make([]Board, len(g.historical), cap(g.historical)),
		histPtr:    g.histPtr,
	}
	copy(retVal.history, g.history)
	copy(retVal.historical, g.historical)
	return retVal
}
