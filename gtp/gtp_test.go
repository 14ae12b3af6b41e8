package gtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

func Test_General(t *testing.T) {
	assert := assert.New(t)
	e := New(nil, "xx", "1", nil)
	var x string

	ch, ret := e.Start()
	ch <- "version"
	x = <-ret
	assert.Equal("= 1\n\n", x)

	ch <- "known_command hello"
	x = <-ret
	assert.Equal("= false\n\n", x)

	ch <- "known_command name"
	x = <-ret
	assert.Equal("= true\n\n", x)

	ch <- "completelyUnheardOfCommand xxx"
	x = <-ret
	assert.Equal("? Unknown command \"completelyunheardofcommand\"\n\n", x)

	ch <- "12 protocol_version # with a comment"
	x = <-ret
	assert.Equal("= 12 2\n\n", x)

	ch <- "list_commands"
	x = <-ret
	assert.True(strings.HasPrefix(x, "= clear_board\nfinal_score\n"), x)

	ch <- "quit"
	x = <-ret
	assert.Equal("= \n\n", x)
	_, open := <-ret
	assert.False(open)
}

func Test_Play(t *testing.T) {
	assert := assert.New(t)
	e := New(nil, "xx", "1", nil)
	e.Generate = func(g *othello.Game) (game.Single, error) {
		return g.Position().LegalMoves()[0], nil
	}
	var x string

	ch, ret := e.Start()
	ch <- "play black f5"
	x = <-ret
	assert.Equal("= \n\n", x)

	ch <- "play black d6"
	x = <-ret
	assert.Equal("? illegal move: it is White's turn\n\n", x)

	ch <- "play white a1"
	x = <-ret
	assert.Equal("? illegal move\n\n", x)

	ch <- "play white"
	x = <-ret
	assert.Equal("? Not enough arguments for \"play\"\n\n", x)

	ch <- "2 genmove w"
	x = <-ret
	assert.Equal("= 2 f4\n\n", x) // white can answer f5 with f4, d6 or f6. f4 comes first
	assert.Equal(2, e.State().MoveNumber())

	ch <- "undo"
	x = <-ret
	assert.Equal("= \n\n", x)
	assert.Equal(1, e.State().MoveNumber())

	ch <- "final_score"
	x = <-ret
	assert.Equal("= B+3\n\n", x)

	ch <- "showboard"
	x = <-ret
	assert.Contains(x, "a b c d e f g h")

	ch <- "loadgame f5d6c3d3c4"
	x = <-ret
	assert.Equal("= \n\n", x)
	assert.Equal(5, e.State().MoveNumber())

	ch <- "loadgame f5a1"
	x = <-ret
	assert.True(strings.HasPrefix(x, "? "), x)

	ch <- "clear_board"
	x = <-ret
	assert.Equal("= \n\n", x)
	assert.Equal(othello.New(), e.State().Position())
	close(ch)
}

func Test_GenmovePass(t *testing.T) {
	assert := assert.New(t)
	g := othello.FromBoard(othello.Board{Black: 1 << 1, White: 1, Next: othello.Black})
	e := New(g, "xx", "1", nil)

	ch, ret := e.Start()
	ch <- "genmove b"
	assert.Equal("= pass\n\n", <-ret)

	ch <- "genmove w"
	assert.Equal("? Unable to generate moves. No generator found\n\n", <-ret)
	close(ch)
}

func TestIgnored(t *testing.T) {
	assert := assert.New(t)
	assert.True(Ignored(""))
	assert.True(Ignored("   # just a comment"))
	assert.True(Ignored("12"))
	assert.False(Ignored("12 name"))
	assert.False(Ignored("play b d3 # comment"))
}
