package reversi

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
	"github.com/gorgonia/reversi/mcts"
)

// An Agent is a player, AI or Human
type Agent struct {
	MCTS   *mcts.MCTS
	Player game.Player
	AgentConfig

	// Statistics
	Wins float32
	Loss float32
	Draw float32
	sync.Mutex

	input    Input
	keepTree bool
	actions  int
}

func newAgent(conf AgentConfig, mconf mcts.Config, input Input, keepTree bool) *Agent {
	retVal := &Agent{
		AgentConfig: conf,
		input:       input,
		keepTree:    keepTree,
	}
	if conf.Kind == Machine {
		retVal.MCTS = mcts.New(mconf)
	}
	return retVal
}

// Name returns the name of the agent.
func (a *Agent) Name() string { return a.AgentConfig.Name }

// Actions is the number of moves the agent has chosen.
func (a *Agent) Actions() int { return a.actions }

// Search returns the move the agent wants to play in g.
//
// A machine searches the current position. A human is asked through the
// Input; a move that is not legal comes back as othello.ErrIllegalMove and g is left alone.
func (a *Agent) Search(g *othello.Game) (game.Single, error) {
	switch a.Kind {
	case Human:
		if a.input == nil {
			return game.Pass, errors.Errorf("agent %v has no input", a.Name())
		}
		move, err := a.input(g, a.Player)
		if err != nil {
			return game.Pass, err
		}
		if !g.Check(game.PlayerMove{Player: a.Player, Single: move}) {
			return game.Pass, errors.Wrapf(othello.ErrIllegalMove, "%v cannot play %v", a.Player, othello.SquareString(move))
		}
		a.actions++
		return move, nil
	}

	b := g.Position()
	move, err := a.MCTS.Search(b, a.Exploration(b), a.Player, a.Iterations)
	if !a.keepTree {
		a.MCTS.Release(a.MCTS.Root())
	}
	if err != nil {
		return game.Pass, errors.WithMessagef(err, "agent %v", a.Name())
	}
	a.actions++
	return move, nil
}

func (a *Agent) resetStats() {
	a.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.actions = 0
	a.Unlock()
}

func (a *Agent) record(winner game.Player) {
	a.Lock()
	switch winner {
	case a.Player:
		a.Wins++
	case game.Player(game.None):
		a.Draw++
	default:
		a.Loss++
	}
	a.Unlock()
}
