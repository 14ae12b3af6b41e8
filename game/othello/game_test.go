package othello

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/reversi/game"
)

func TestGame_PlayUndo(t *testing.T) {
	assert := assert.New(t)
	g := NewGame()

	assert.NoError(g.Play(37)) // f5
	assert.Equal(White, g.ToMove())
	assert.Equal(1, g.MoveNumber())
	assert.Equal(game.PlayerMove{Player: Black, Single: 37}, g.LastMove())

	err := g.Play(0)
	assert.Equal(ErrIllegalMove, errors.Cause(err))
	assert.Equal(1, g.MoveNumber(), "illegal moves do not change the game")

	pm := game.PlayerMove{Player: Black, Single: 43}
	assert.False(g.Check(pm), "not black's turn")
	assert.True(g.Apply(pm).Eq(g))
	assert.Equal(1, g.MoveNumber())

	assert.NoError(g.Play(43)) // d6
	assert.Equal([]game.Single{37, 43}, g.Moves())

	g.UndoLastMove()
	assert.Equal(1, g.MoveNumber())
	assert.Equal(White, g.ToMove())
	g.UndoLastMove()
	assert.Equal(New(), g.Position())
	g.UndoLastMove() // nothing left to undo
	assert.Equal(0, g.MoveNumber())
	assert.Equal(game.Pass, g.LastMove().Single)
}

func TestGame_Passes(t *testing.T) {
	assert := assert.New(t)
	g := FromBoard(Board{Black: sq(1), White: sq(0), Next: Black})
	assert.False(g.Check(game.PlayerMove{Player: Black, Single: 2}))
	assert.NoError(g.Play(game.Pass))
	assert.Equal(1, g.Passes())
	assert.NoError(g.Play(2))
	assert.Equal(0, g.Passes())

	ended, winner := g.Ended()
	assert.True(ended)
	assert.Equal(White, winner)
	assert.Equal(float32(3), g.Score(White))

	// pass is illegal when a move exists
	assert.Equal(ErrIllegalMove, errors.Cause(NewGame().Play(game.Pass)))
}

func TestGame_Clone(t *testing.T) {
	assert := assert.New(t)
	g := NewGame()
	assert.NoError(g.Play(19))
	c := g.Clone().(*Game)
	assert.True(c.Eq(g))

	assert.NoError(c.Play(18)) // c3
	assert.False(c.Eq(g))
	assert.Equal(1, g.MoveNumber())
	assert.Equal(2, c.MoveNumber())

	g.Reset()
	assert.Equal(0, g.MoveNumber())
	assert.Equal(New(), g.Position())
	assert.Equal(2, c.MoveNumber())
}

func TestGame_Board(t *testing.T) {
	g := NewGame()
	board := g.Board()
	assert.Len(t, board, NumSquares)
	assert.Equal(t, game.White, board[27])
	assert.Equal(t, game.Black, board[28])
	assert.Equal(t, game.None, board[0])

	s := fmt.Sprintf("%s", g)
	assert.NotContains(t, s, "*")
	assert.Contains(t, fmt.Sprintf("%v", g), "*")
}

func TestGame_Concurrent(t *testing.T) {
	g := NewGame()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				moves := g.Position().LegalMoves()
				if len(moves) == 0 || i%3 == w%3 {
					g.UndoLastMove()
					continue
				}
				g.Play(moves[0]) // another goroutine may have moved first
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				b := g.Position()
				for _, m := range b.LegalMoves() {
					g.Check(game.PlayerMove{Player: b.Next, Single: m})
				}
				_ = fmt.Sprintf("%s", g)
				_ = g.History()
				_, _ = g.Ended()
			}
		}()
	}
	wg.Wait()

	b := g.Position()
	assert.Zero(t, b.Black&b.White)
	assert.Len(t, g.History(), g.MoveNumber())
	assert.Equal(t, 4+g.MoveNumber(), b.Count(Black)+b.Count(White))
}
