package gtp

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)

	var buf bytes.Buffer
	for i, c := range cmds {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(c)
	}
	return buf.String()
}

func quit(e *Engine) string       { e.quitting = true; return "" }
func clearBoard(e *Engine) string { e.g.Reset(); return "" }
func showboard(e *Engine) string  { return fmt.Sprintf("\n%v", e.g) }
func undo(e *Engine) string       { e.g.UndoLastMove(); return "" }

func finalScore(e *Engine) string {
	b := e.g.Position()
	black, white := b.Count(othello.Black), b.Count(othello.White)
	switch {
	case black > white:
		return fmt.Sprintf("B+%d", black-white)
	case white > black:
		return fmt.Sprintf("W+%d", white-black)
	}
	return "0"
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func parseColour(s string) (game.Player, error) {
	switch s {
	case "b", "black":
		return othello.Black, nil
	case "w", "white":
		return othello.White, nil
	}
	return game.Player(game.None), errors.Errorf("Unknown colour %q", s)
}

func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	p, err := parseColour(args[0])
	if err != nil {
		return "", err
	}
	m, err := othello.ParseSquare(args[1])
	if err != nil {
		return "", errors.WithMessage(err, "Unable to parse vertex")
	}
	if p != e.g.ToMove() {
		return "", errors.Errorf("illegal move: it is %v's turn", e.g.ToMove())
	}
	if err := e.g.Play(m); err != nil {
		return "", errors.New("illegal move")
	}
	return "", nil
}

func genmove(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"genmove\"")
	}
	p, err := parseColour(args[0])
	if err != nil {
		return "", err
	}
	if p != e.g.ToMove() {
		return "", errors.Errorf("it is %v's turn", e.g.ToMove())
	}

	var m game.Single
	switch e.g.Position().Classify() {
	case othello.GameOver:
		return "", errors.New("game is over")
	case othello.Pass:
		m = game.Pass
	default:
		if e.Generate == nil {
			return "", errors.New("Unable to generate moves. No generator found")
		}
		if m, err = e.Generate(e.g); err != nil {
			return "", errors.WithMessage(err, "Unable to generate move")
		}
	}
	if err = e.g.Play(m); err != nil {
		return "", errors.WithMessagef(err, "generated move %v", othello.SquareString(m))
	}
	return othello.SquareString(m), nil
}

// loadgame replaces the game with the moves of a game string such as "f5d6c3".
func loadgame(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"loadgame\"")
	}
	_, moves, err := othello.ParseGame(args[0])
	if err != nil {
		return "", err
	}
	e.g.Reset()
	for _, m := range moves {
		if e.g.Position().Classify() == othello.Pass {
			if err := e.g.Play(game.Pass); err != nil {
				return "", err
			}
		}
		if err := e.g.Play(m); err != nil {
			return "", err
		}
	}
	return "", nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),
		"undo":             stdlib(undo),
		"final_score":      stdlib(finalScore),

		"known_command": stdlib2(knownCommand),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
		"loadgame":      stdlib2(loadgame),
	}
}
