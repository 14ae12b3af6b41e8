package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"

	"github.com/gorgonia/reversi"
	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

// renderBoard draws b with coloured discs. Legal moves of the side to move are marked with '*'.
func renderBoard(out *termenv.Output, b othello.Board) string {
	var sb strings.Builder
	felt := out.Color("#1b7a3a")
	moves := b.Moves()

	sb.WriteString("  a b c d e f g h\n")
	for y := 0; y < othello.Size; y++ {
		fmt.Fprintf(&sb, "%d ", y+1)
		for x := 0; x < othello.Size; x++ {
			i := game.Single(x + othello.Size*y)
			var s termenv.Style
			switch {
			case b.At(i) == game.Black:
				s = out.String("●").Foreground(out.Color("0"))
			case b.At(i) == game.White:
				s = out.String("●").Foreground(out.Color("15"))
			case moves&(uint64(1)<<uint(i)) != 0:
				s = out.String("*").Foreground(out.Color("11"))
			default:
				s = out.String("·").Foreground(out.Color("8"))
			}
			sb.WriteString(s.Background(felt).String())
			sb.WriteString(out.String(" ").Background(felt).String())
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "B: %d W: %d", b.Count(othello.Black), b.Count(othello.White))
	return sb.String()
}

// boardPrinter prints the board after every move.
type boardPrinter struct {
	out *termenv.Output
	w   io.Writer
}

func (p *boardPrinter) Encode(ms game.MetaState) error {
	g, ok := ms.State().(*othello.Game)
	if !ok {
		return errors.Errorf("cannot print %T", ms.State())
	}
	last := g.LastMove()
	if last.Single.IsPass() {
		fmt.Fprintf(p.w, "Player %s passes\n", last.Player)
	} else {
		fmt.Fprintf(p.w, "Player %s plays %v\n", last.Player, othello.SquareString(last.Single))
	}
	_, err := fmt.Fprintln(p.w, renderBoard(p.out, g.Position()))
	return err
}

func (p *boardPrinter) Flush() error { return nil }

type multiEncoder []reversi.OutputEncoder

func (m multiEncoder) Encode(ms game.MetaState) error {
	for _, enc := range m {
		if err := enc.Encode(ms); err != nil {
			return err
		}
	}
	return nil
}

func (m multiEncoder) Flush() error {
	for _, enc := range m {
		if err := enc.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// prompt asks a human for moves on a line based terminal.
type prompt struct {
	scanner *bufio.Scanner
	w       io.Writer
}

func newPrompt(r io.Reader, w io.Writer) *prompt {
	return &prompt{scanner: bufio.NewScanner(r), w: w}
}

func (p *prompt) Input(g *othello.Game, player game.Player) (game.Single, error) {
	fmt.Fprintf(p.w, "Player %s's turn (enter your move, e.g. d3): ", player)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return game.Pass, err
		}
		return game.Pass, io.EOF
	}
	return othello.ParseSquare(p.scanner.Text())
}
