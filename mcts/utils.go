package mcts

import (
	"sort"

	"github.com/gorgonia/reversi/game"
)

type byMove struct {
	t *MCTS
	l []naughty
}

func (l byMove) Len() int { return len(l.l) }
func (l byMove) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i])
	lj := l.t.nodeFromNaughty(l.l[j])
	return li.move < lj.move
}
func (l byMove) Swap(i, j int) {
	l.l[i], l.l[j] = l.l[j], l.l[i]
}

// byVisits sorts the most visited first.
type byVisits struct {
	t *MCTS
	l []naughty
}

func (l byVisits) Len() int { return len(l.l) }
func (l byVisits) Less(i, j int) bool {
	return l.t.nodeFromNaughty(l.l[i]).visits > l.t.nodeFromNaughty(l.l[j]).visits
}
func (l byVisits) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }

// MoveStat is the search summary of one root move.
type MoveStat struct {
	Move   game.Single
	Visits uint32
	Mean   float32
}

// RootStats lists the expanded root moves, most visited first. Moves with equal visits keep their search order.
func (t *MCTS) RootStats() []MoveStat {
	if !t.root.isValid() {
		return nil
	}
	root := t.nodeFromNaughty(t.root)
	kids := make([]naughty, 0, len(root.children))
	for _, kid := range root.children {
		if kid.isValid() {
			kids = append(kids, kid)
		}
	}
	sort.Stable(byVisits{t: t, l: kids})

	retVal := make([]MoveStat, 0, len(kids))
	for _, kid := range kids {
		N := t.nodeFromNaughty(kid)
		retVal = append(retVal, MoveStat{Move: N.move, Visits: N.visits, Mean: N.Mean()})
	}
	return retVal
}
