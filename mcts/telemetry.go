package mcts

import "github.com/rs/zerolog"

// Telemetry is a snapshot of a running search.
type Telemetry struct {
	Iteration int
	Nodes     int // live nodes
	Bytes     int // see MemoryUsage
}

// lumberjack reports search progress to a logger and an optional callback.
type lumberjack struct {
	logger zerolog.Logger
	report func(Telemetry)
}

func makeLumberJack(logger zerolog.Logger, report func(Telemetry)) lumberjack {
	return lumberjack{logger: logger, report: report}
}

func (l lumberjack) log(tel Telemetry) {
	l.logger.Debug().
		Int("iteration", tel.Iteration).
		Int("nodes", tel.Nodes).
		Int("kb", tel.Bytes/1024).
		Msg("search progress")
	if l.report != nil {
		l.report(tel)
	}
}
