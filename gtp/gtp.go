package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

// Engine is a text protocol engine modelled on GTP version 2.
// Commands are read from one channel and the responses are written to another.
type Engine struct {
	g *othello.Game

	known map[string]Command

	ch   chan string
	ret  chan string
	done chan struct{}

	// Generate picks the move for the side to move. It is only called when the side to move has a legal move.
	Generate      func(g *othello.Game) (game.Single, error)
	name, version string
	quitting      bool
}

func New(g *othello.Game, name, version string, known map[string]Command) *Engine {
	if g == nil {
		g = othello.NewGame()
	}
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		g:       g,
		known:   known,
		name:    name,
		version: version,
	}
}

// Start runs the engine in its own goroutine. The output channel is closed after "quit"
// or once the input channel is closed.
func (e *Engine) Start() (input chan<- string, output <-chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	e.done = make(chan struct{})
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) State() *othello.Game { return e.g }

// Done is closed when the engine stops reading commands.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Ignored returns true for lines that get no response: blank lines, comments and lone IDs.
func Ignored(line string) bool {
	tokens := strings.Fields(preprocess(line))
	if len(tokens) == 0 {
		return true
	}
	if _, err := strconv.Atoi(tokens[0]); err == nil && len(tokens) == 1 {
		return true
	}
	return false
}

func (e *Engine) start() {
	defer close(e.done)
	defer close(e.ret)
	for cmd := range e.ch {
		id, x, args, err := e.parse(cmd)
		if x == nil && err == nil {
			continue //
		}
		if err != nil {
			e.ret <- handleErr(id, err)
			continue
		}
		id, result, err := x.Do(id, args, e)
		e.ret <- handleResult(id, result, err)
		if e.quitting {
			return
		}
	}
}

// refer to this
// https://www.lysator.liu.se/%7Egunnar/gtp/gtp2-spec-draft2/gtp2-spec.html#SECTION00030000000000000000
func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	if len(tokens) == 0 {
		return -1, nil, nil, nil
	}
	if id, err = strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		tokens = tokens[1:]
	} else {
		// set err to nil because ID is optional
		err = nil
		id = -1
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // GNUGo some how does nothing when there are no tokens left. An ID may be passed in but it'll be ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess lowercases the line and drops comments.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
