package reversi

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gorgonia/reversi/game/othello"
)

// GameResult is the summary of one finished game.
type GameResult struct {
	Number     int
	Black      string // agent names
	White      string
	BlackDiscs int
	WhiteDiscs int
	Winner     string // empty on a draw
	Moves      string // in the notation read by othello.ParseGame
}

// Tournament plays independent games between the two agents of conf.
// The agents swap colours every game. Every game gets its own arena and its own trees.
type Tournament struct {
	Config
	*Statistics
	Results []GameResult

	mu      sync.Mutex
	ledgers map[string]*Agent
}

func NewTournament(conf Config) (*Tournament, error) {
	if conf.A.Kind == Human || conf.B.Kind == Human {
		return nil, errors.New("tournaments are played between machines")
	}
	if !conf.IsValid() {
		return nil, errors.New("invalid tournament configuration")
	}
	if conf.A.Name == conf.B.Name {
		return nil, errors.Errorf("both agents are named %q", conf.A.Name)
	}
	return &Tournament{
		Config:     conf,
		Statistics: NewStatistics(),
		ledgers: map[string]*Agent{
			conf.A.Name: {AgentConfig: conf.A},
			conf.B.Name: {AgentConfig: conf.B},
		},
	}, nil
}

// Run plays games games with at most workers of them at the same time.
// Results are kept in the order the games finish.
func (t *Tournament) Run(ctx context.Context, games, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return t.play(i)
		})
	}
	return g.Wait()
}

func (t *Tournament) play(i int) error {
	conf := t.Config
	conf.OutputEncoder = nil
	conf.KeepTree = false
	if i%2 == 1 {
		conf.A, conf.B = conf.B, conf.A
	}
	if conf.MCTSConf.Seed != 0 {
		conf.MCTSConf.Seed += uint64(i)
	}
	conf.Logger = t.Logger.With().Int("tournament_game", i+1).Logger()

	arena := NewArena(conf)
	winner, err := arena.Play(nil)
	if err != nil {
		return err
	}

	b := arena.Game().Position()
	res := GameResult{
		Number:     i + 1,
		Black:      arena.A.Name(),
		White:      arena.B.Name(),
		BlackDiscs: b.Count(othello.Black),
		WhiteDiscs: b.Count(othello.White),
		Moves:      othello.GameString(arena.Game().Moves()),
	}
	switch winner {
	case othello.Black:
		res.Winner = res.Black
	case othello.White:
		res.Winner = res.White
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.Results = append(t.Results, res)
	for _, a := range []*Agent{arena.A, arena.B} {
		ledger := t.ledgers[a.Name()]
		ledger.Player = a.Player
		ledger.record(winner)
		t.Update(ledger)
	}
	return nil
}

// Tally returns the wins, losses and draws of the named agent.
func (t *Tournament) Tally(name string) (wins, losses, draws int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ledger, ok := t.ledgers[name]
	if !ok {
		return 0, 0, 0
	}
	return int(ledger.Wins), int(ledger.Loss), int(ledger.Draw)
}
