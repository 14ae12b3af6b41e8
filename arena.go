package reversi

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

var _ game.MetaState = &Arena{}

// Arena runs games between two agents. A plays black and B plays white.
type Arena struct {
	game *othello.Game
	A, B *Agent

	// state
	currentPlayer *Agent
	logger        zerolog.Logger
	name          string
	gameNumber    int
}

// MakeArena makes an arena for two agents as described by conf.
func MakeArena(conf Config) Arena {
	A := newAgent(conf.A, conf.MCTSConf, conf.Input, conf.KeepTree)
	A.Player = othello.Black
	B := newAgent(conf.B, conf.MCTSConf, conf.Input, conf.KeepTree)
	B.Player = othello.White

	name := conf.Name
	if name == "" {
		name = "UNKNOWN GAME"
	}
	return Arena{
		game:   othello.NewGame(),
		A:      A,
		B:      B,
		logger: conf.Logger,
		name:   name,
	}
}

func NewArena(conf Config) *Arena {
	ar := MakeArena(conf)
	return &ar
}

// Play plays a game from the starting position and returns the winner. If it is a draw, the returned colour is None.
//
// Forced passes are played for the agents. A human move that cannot be
// parsed or is illegal is asked for again; any other error ends the game.
func (a *Arena) Play(enc OutputEncoder) (winner game.Player, err error) {
	a.game.Reset()
	a.gameNumber++
	log := a.logger.With().Int("game", a.gameNumber).Logger()
	log.Info().Str("black", a.A.Name()).Str("white", a.B.Name()).Msg("Playing")

	for {
		b := a.game.Position()
		status := b.Classify()
		if status == othello.GameOver {
			break
		}
		a.currentPlayer = a.agentFor(b.Next)

		var best game.Single
		if status == othello.Pass {
			best = game.Pass
			log.Info().Str("player", colourName(b.Next)).Msg("passes")
		} else if best, err = a.currentPlayer.Search(a.game); err != nil {
			if a.currentPlayer.Kind == Human && isRetryable(err) {
				log.Warn().Err(err).Msg("Invalid move. Please try again")
				continue
			}
			return game.Player(game.None), errors.WithMessagef(err, "game %d move %d", a.gameNumber, a.game.MoveNumber()+1)
		}

		if err = a.game.Play(best); err != nil {
			return game.Player(game.None), errors.WithMessagef(err, "game %d", a.gameNumber)
		}
		log.Debug().Str("player", colourName(b.Next)).Str("move", othello.SquareString(best)).Msg("played")
		if enc != nil {
			if err = enc.Encode(a); err != nil {
				return game.Player(game.None), errors.Wrap(err, "Unable to encode")
			}
		}
	}

	_, winner = a.game.Ended()
	a.A.record(winner)
	a.B.record(winner)
	b := a.game.Position()
	log.Info().
		Int("black", b.Count(othello.Black)).
		Int("white", b.Count(othello.White)).
		Str("winner", colourName(winner)).
		Msg("Game over")
	return winner, nil
}

func (a *Arena) agentFor(p game.Player) *Agent {
	if p == a.A.Player {
		return a.A
	}
	return a.B
}

// Game returns the game being played.
func (a *Arena) Game() *othello.Game { return a.game }

// CurrentPlayer is the agent whose turn it was last.
func (a *Arena) CurrentPlayer() *Agent { return a.currentPlayer }

func (a *Arena) GameNumber() int             { return a.gameNumber }
func (a *Arena) Name() string                { return a.name }
func (a *Arena) Score(p game.Player) float64 { return float64(a.game.Score(p)) }
func (a *Arena) State() game.State           { return a.game }

func isRetryable(err error) bool {
	switch errors.Cause(err) {
	case othello.ErrIllegalMove, othello.ErrBadNotation:
		return true
	}
	return false
}

func colourName(p game.Player) string {
	switch p {
	case othello.Black:
		return "Black"
	case othello.White:
		return "White"
	}
	return "None"
}
