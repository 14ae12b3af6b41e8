package reversi

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
	"github.com/gorgonia/reversi/mcts"
)

// Kind says who makes the decisions for an agent.
type Kind int

const (
	Machine Kind = iota
	Human
)

func (k Kind) String() string {
	switch k {
	case Machine:
		return "machine"
	case Human:
		return "human"
	}
	return "unknown"
}

// ParseKind parses "machine" or "human".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "machine", "m", "ai":
		return Machine, nil
	case "human", "h":
		return Human, nil
	}
	return Machine, errors.Errorf("Unknown agent kind %q", s)
}

// AgentConfig configures one side of a match.
type AgentConfig struct {
	Name       string
	Kind       Kind
	Iterations int // search budget per move

	// C is the UCT exploration constant at the start of the game. It moves
	// linearly towards CEnd as the board fills up.
	C, CEnd float32
}

func DefaultAgentConfig(name string) AgentConfig {
	return AgentConfig{
		Name:       name,
		Kind:       Machine,
		Iterations: 10000,
		C:          1.4,
		CEnd:       1.4,
	}
}

func (c AgentConfig) IsValid() bool {
	if c.Kind == Human {
		return true
	}
	return c.Iterations > 0 && c.C >= 0 && c.CEnd >= 0
}

// Exploration returns the exploration constant to search b with.
func (c AgentConfig) Exploration(b othello.Board) float32 {
	const playable = othello.NumSquares - 4
	progress := float32(playable-b.Empty()) / playable
	if progress < 0 {
		progress = 0
	}
	return c.C + (c.CEnd-c.C)*progress
}

type Config struct {
	Name     string
	A, B     AgentConfig // A plays black, B plays white
	MCTSConf mcts.Config

	// KeepTree keeps each agent's last search tree alive until its next
	// search, so it can be inspected. Otherwise it is released as soon as
	// the move is read.
	KeepTree bool

	Logger zerolog.Logger

	// extensions
	Input         Input
	OutputEncoder OutputEncoder
}

func DefaultConfig() Config {
	return Config{
		Name:     "Othello",
		A:        DefaultAgentConfig("A"),
		B:        DefaultAgentConfig("B"),
		MCTSConf: mcts.DefaultConfig(),
		Logger:   zerolog.Nop(),
	}
}

func (c Config) IsValid() bool {
	if !c.A.IsValid() || !c.B.IsValid() || !c.MCTSConf.IsValid() {
		return false
	}
	if (c.A.Kind == Human || c.B.Kind == Human) && c.Input == nil {
		return false
	}
	return true
}

// Input asks a human for the move of p.
type Input func(g *othello.Game, p game.Player) (game.Single, error)

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}
