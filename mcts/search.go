package mcts

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

/*
Here lies the search itself, while node.go and tree.go handle the data structure stuff.

Every iteration runs the four usual steps:
	1. select: walk down from the root by UCT until a node that is terminal or still has unexpanded moves
	2. expand: add one child to that node
	3. simulate: play uniformly random moves from the child until the game is over
	4. backpropagate: add the outcome to every node from the child up to the root

Outcomes are always scored for the optimizing side and are never negated on the way up.
*/

// ErrNoMoves is returned when the root position has no move to search.
var ErrNoMoves = errors.New("no moves to search")

// Search runs budget iterations from root and returns the move whose child was visited the most.
// Outcomes are 1 for an optimizer win, 0.5 for a draw and 0 for a loss. c is the UCT exploration constant.
//
// If the side to move has to pass, Search returns game.Pass without searching.
// If the game is over it returns ErrNoMoves.
//
// Nodes from a previous search are dropped. The tree of this search stays alive until Release or Reset.
func (t *MCTS) Search(root othello.Board, c float32, optimizer game.Player, budget int) (game.Single, error) {
	if budget <= 0 {
		return game.Pass, errors.Errorf("invalid search budget %d", budget)
	}
	if optimizer != othello.Black && optimizer != othello.White {
		return game.Pass, errors.Errorf("cannot search for %v", optimizer)
	}
	switch root.Classify() {
	case othello.GameOver:
		return game.Pass, ErrNoMoves
	case othello.Pass:
		return game.Pass, nil
	}

	if t.nc > 0 {
		t.Reset()
	}
	t.root = t.newNode(nilNode, game.Pass, root)

	for i := 1; i <= budget; i++ {
		t.iterate(c, optimizer)
		if t.DebugEvery > 0 && i%t.DebugEvery == 0 {
			t.log(Telemetry{Iteration: i, Nodes: t.nc, Bytes: t.MemoryUsage()})
		}
	}

	best := t.BestIndex()
	if best < 0 {
		return game.Pass, ErrNoMoves
	}
	return t.nodeFromNaughty(t.root).moves[best], nil
}

func (t *MCTS) iterate(c float32, optimizer game.Player) {
	leaf := t.selectNode(c)
	N := t.nodeFromNaughty(leaf)
	if !N.terminal && !N.IsFullyExpanded() {
		leaf = t.expand(leaf)
	}
	outcome := t.simulate(t.nodeFromNaughty(leaf).state, optimizer)
	t.backpropagate(leaf, outcome)
}

// selectNode walks down from the root. It stops at a terminal node, at a node
// with unexpanded moves, or at a node whose children have all been released.
func (t *MCTS) selectNode(c float32) naughty {
	cur := t.root
	for {
		N := t.nodeFromNaughty(cur)
		if N.terminal || !N.IsFullyExpanded() {
			return cur
		}

		best := nilNode
		bestScore := math32.Inf(-1)
		for _, kid := range N.children {
			if !kid.isValid() {
				continue
			}
			score := t.nodeFromNaughty(kid).uct(c, N.visits)
			if score > bestScore {
				best, bestScore = kid, score
			}
		}
		if best == nilNode {
			return cur
		}
		cur = best
	}
}

// expand adds the child for the next unexpanded move of the node.
func (t *MCTS) expand(of naughty) naughty {
	N := t.nodeFromNaughty(of)
	idx := N.expanded
	move := N.moves[idx]
	state := N.state.Apply(move)

	kid := t.newNode(of, move, state)
	N = t.nodeFromNaughty(of) // the arena may have moved
	N.children[idx] = kid
	N.expanded++
	return kid
}

// simulate plays random moves until the game is over.
func (t *MCTS) simulate(b othello.Board, optimizer game.Player) float32 {
	for {
		switch b.Classify() {
		case othello.GameOver:
			return outcome(b, optimizer)
		case othello.Pass:
			b = b.Passed()
			continue
		}
		moves := b.LegalMoves()
		b = b.Apply(moves[t.rand.Intn(len(moves))])
	}
}

func (t *MCTS) backpropagate(from naughty, outcome float32) {
	for cur := from; cur.isValid(); {
		N := t.nodeFromNaughty(cur)
		N.visits++
		N.value += outcome
		cur = N.parent
	}
}

// BestIndex returns the index, among the root's candidate moves, of the most visited child.
// Ties go to the first. It returns -1 if there is no root or no child.
func (t *MCTS) BestIndex() int {
	if !t.root.isValid() {
		return -1
	}
	root := t.nodeFromNaughty(t.root)
	retVal := -1
	var most uint32
	for i, kid := range root.children {
		if !kid.isValid() {
			continue
		}
		if v := t.nodeFromNaughty(kid).visits; retVal < 0 || v > most {
			retVal, most = i, v
		}
	}
	return retVal
}

// outcome scores a finished game for p.
func outcome(b othello.Board, p game.Player) float32 {
	switch b.Winner() {
	case p:
		return 1
	case game.Player(game.None):
		return 0.5
	}
	return 0
}
