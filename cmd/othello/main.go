package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gorgonia/reversi"
	"github.com/gorgonia/reversi/encoding/gif"
	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
	"github.com/gorgonia/reversi/gtp"
	"github.com/gorgonia/reversi/mcts"
)

var (
	iterations = flag.Int("iterations", 10000, "search iterations per move")
	c          = flag.Float64("c", 1.4, "UCT exploration constant at the start of the game")
	cEnd       = flag.Float64("c-end", -1, "exploration constant at the end of the game. Negative means the same as -c")
	black      = flag.String("black", "human", "who plays black: human or machine")
	white      = flag.String("white", "machine", "who plays white: human or machine")
	debug      = flag.Bool("debug", false, "log search telemetry")
	debugEvery = flag.Int("debug-every", 1000, "iterations between telemetry lines when -debug is set")
	seed       = flag.Uint64("seed", 0, "random seed. 0 seeds from the clock")
	games      = flag.Int("games", 1, "number of games. More than one game plays a machine only tournament")
	workers    = flag.Int("workers", 4, "games played at the same time in a tournament")
	gifOut     = flag.String("gif", "", "write the game as an animated GIF to this file")
	dotOut     = flag.String("dot", "", "write the last search tree of each machine as Graphviz to this file prefix")
	statsOut   = flag.String("stats", "", "write tournament statistics as CSV to this file")
	gtpMode    = flag.Bool("gtp", false, "speak the text protocol on stdin and stdout")
)

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	if *debug {
		logger = logger.Level(zerolog.DebugLevel)
	}

	conf, err := makeConfig(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Bad flags")
	}

	switch {
	case *gtpMode:
		err = runGTP(conf, os.Stdin, os.Stdout)
	case *games > 1:
		err = runTournament(conf, logger)
	default:
		err = runGame(conf, logger)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed")
	}
}

func makeConfig(logger zerolog.Logger) (reversi.Config, error) {
	conf := reversi.DefaultConfig()
	conf.Logger = logger
	conf.MCTSConf.Seed = *seed
	conf.MCTSConf.Logger = logger
	if *debug {
		conf.MCTSConf.DebugEvery = *debugEvery
	}
	conf.KeepTree = *dotOut != ""

	end := *cEnd
	if end < 0 {
		end = *c
	}
	for _, side := range []struct {
		a     *reversi.AgentConfig
		name  string
		alias string // used in tournaments, where colours alternate
		kind  string
	}{
		{&conf.A, "Black", "A", *black},
		{&conf.B, "White", "B", *white},
	} {
		kind, err := reversi.ParseKind(side.kind)
		if err != nil {
			return conf, err
		}
		side.a.Name = fmt.Sprintf("%v (%v)", side.name, kind)
		if *games > 1 {
			side.a.Name = side.alias
		}
		side.a.Kind = kind
		side.a.Iterations = *iterations
		side.a.C = float32(*c)
		side.a.CEnd = float32(end)
	}

	conf.Input = newPrompt(os.Stdin, os.Stdout).Input
	if !conf.IsValid() {
		return conf, errors.New("invalid configuration")
	}
	return conf, nil
}

func runGame(conf reversi.Config, logger zerolog.Logger) error {
	out := termenv.NewOutput(os.Stdout)
	encs := multiEncoder{&boardPrinter{out: out, w: os.Stdout}}

	var gifEnc *gif.Encoder
	if *gifOut != "" {
		gifEnc = gif.NewGifEncoder(600, 460)
		encs = append(encs, gifEnc)
	}

	arena := reversi.NewArena(conf)
	fmt.Fprintln(os.Stdout, renderBoard(out, arena.Game().Position()))
	winner, err := arena.Play(encs)
	if err != nil {
		return err
	}

	b := arena.Game().Position()
	black, white := b.Count(othello.Black), b.Count(othello.White)
	switch winner {
	case othello.Black:
		fmt.Fprintf(os.Stdout, "Player B wins with %d-%d!\n", black, white)
	case othello.White:
		fmt.Fprintf(os.Stdout, "Player W wins with %d-%d!\n", white, black)
	default:
		fmt.Fprintf(os.Stdout, "It's a draw! %d-%d\n", black, white)
	}
	fmt.Fprintf(os.Stdout, "Game: %v\n", othello.GameString(arena.Game().Moves()))

	if gifEnc != nil {
		f, err := os.Create(*gifOut)
		if err != nil {
			return errors.Wrap(err, "Unable to create gif")
		}
		defer f.Close()
		gifEnc.Writer = f
		if err := gifEnc.Flush(); err != nil {
			return errors.Wrap(err, "Unable to write gif")
		}
		logger.Info().Str("file", *gifOut).Msg("Wrote gif")
	}

	if *dotOut != "" {
		for _, a := range []*reversi.Agent{arena.A, arena.B} {
			if a.MCTS == nil || a.MCTS.Nodes() == 0 {
				continue
			}
			filename := fmt.Sprintf("%s_%v.dot", *dotOut, a.Player)
			if err := os.WriteFile(filename, []byte(a.MCTS.ToDot()), 0644); err != nil {
				return errors.Wrapf(err, "Unable to write %v", filename)
			}
			logger.Info().Str("file", filename).Int("nodes", a.MCTS.Nodes()).Msg("Wrote search tree")
		}
	}
	return nil
}

func runTournament(conf reversi.Config, logger zerolog.Logger) error {
	tour, err := reversi.NewTournament(conf)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := tour.Run(context.Background(), *games, *workers); err != nil {
		return err
	}
	for _, name := range []string{conf.A.Name, conf.B.Name} {
		w, l, d := tour.Tally(name)
		logger.Info().Str("agent", name).Int("wins", w).Int("losses", l).Int("draws", d).
			Float32("win_rate", tour.WinRate(name)).Msg("Result")
	}
	logger.Info().Dur("took", time.Since(start)).Int("games", len(tour.Results)).Msg("Tournament over")

	if *statsOut != "" {
		return tour.Dump(*statsOut)
	}
	return nil
}

func runGTP(conf reversi.Config, r io.Reader, w io.Writer) error {
	tree := mcts.New(conf.MCTSConf)
	e := gtp.New(nil, "reversi", "0.1", nil)
	e.Generate = func(g *othello.Game) (game.Single, error) {
		b := g.Position()
		ac := conf.A
		if b.Next == othello.White {
			ac = conf.B
		}
		defer tree.Reset()
		return tree.Search(b, ac.Exploration(b), b.Next, ac.Iterations)
	}

	in, out := e.Start()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if gtp.Ignored(line) {
			continue
		}
		select {
		case in <- line:
		case <-e.Done():
			return nil
		}
		resp, ok := <-out
		if !ok {
			return nil
		}
		fmt.Fprint(w, resp)
	}
	close(in)
	return scanner.Err()
}
