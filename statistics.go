package reversi

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// Statistics keeps the running record of each agent, one entry per game played.
type Statistics struct {
	sync.Mutex
	Creation []string
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

// NewStatistics creates an empty record.
func NewStatistics() *Statistics {
	s := makeStatistics()
	return &s
}

// Update appends the agent's current totals.
func (s *Statistics) Update(A *Agent) {
	s.Lock()
	defer s.Unlock()
	aname := A.Name()

	if _, ok := s.Wins[aname]; !ok {
		s.Creation = append(s.Creation, aname)
	}

	A.Lock()
	s.Wins[aname] = append(s.Wins[aname], A.Wins)
	s.Losses[aname] = append(s.Losses[aname], A.Loss)
	s.Draws[aname] = append(s.Draws[aname], A.Draw)
	A.Unlock()
}

// WinRate is the latest win rate of the named agent. Draws count as games played.
func (s *Statistics) WinRate(name string) float32 {
	s.Lock()
	defer s.Unlock()
	wins := s.Wins[name]
	if len(wins) == 0 {
		return 0
	}
	j := len(wins) - 1
	total := wins[j] + s.Losses[name][j] + s.Draws[name][j]
	if total == 0 {
		return 0
	}
	return wins[j] / total
}

// WriteCSV writes the win rate history as CSV, one column per agent.
func (s *Statistics) WriteCSV(w io.Writer) error {
	s.Lock()
	defer s.Unlock()
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Creation); err != nil {
		return err
	}
	var records [][]string
	for i, agent := range s.Creation {
		for j, win := range s.Wins[agent] {
			record := make([]string, len(s.Creation))
			winRate := win / (win + s.Losses[agent][j] + s.Draws[agent][j])

			record[i] = strconv.FormatFloat(float64(winRate), 'f', 3, 32)
			records = append(records, record)
		}
	}
	// WriteAll flushes
	return cw.WriteAll(records)
}

// Dump writes the statistics to filename as CSV.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to open %v", filename)
	}
	defer f.Close()
	return s.WriteCSV(f)
}
