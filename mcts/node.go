package mcts

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

type Status uint32

const (
	Invalid Status = iota // the slot is on the freelist
	Active
)

func (a Status) String() string {
	switch a {
	case Invalid:
		return "Invalid"
	case Active:
		return "Active"
	}
	return "UNKNOWN STATUS"
}

// Node is a slot in the tree's arena. Nodes refer to each other by index, never by pointer.
//
// A *Node is only good until the next allocation in the tree, which may move the arena.
type Node struct {
	id     naughty
	parent naughty

	move  game.Single  // the move that led here, game.Pass for the root
	state othello.Board // the position after move, with the side that has to play next

	// moves are the legal moves of state in random order.
	// children[i] is the node reached by moves[i], or nilNode if it has not been expanded.
	moves    []game.Single
	children []naughty
	expanded int // moves[:expanded] have been expanded

	visits   uint32
	value    float32 // sum of the playout outcomes that passed through here
	terminal bool
	status   Status
}

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Move: %v, Visits: %v, Value: %v Expanded: %d/%d Terminal: %t Status: %v}",
		n.id, othello.SquareString(n.move), n.visits, n.value, n.expanded, len(n.moves), n.terminal, n.status)
}

// ID returns the arena index of the node.
func (n *Node) ID() int { return int(n.id) }

// Move gets the move associated with the node
func (n *Node) Move() game.Single { return n.move }

// State returns the position of the node.
func (n *Node) State() othello.Board { return n.state }

// Moves returns the candidate moves, in the order they are expanded in.
func (n *Node) Moves() []game.Single { return n.moves }

func (n *Node) Visits() uint32 { return n.visits }

func (n *Node) Value() float32 { return n.value }

// Mean is the average outcome of the playouts through this node.
func (n *Node) Mean() float32 {
	if n.visits == 0 {
		return 0
	}
	return n.value / float32(n.visits)
}

func (n *Node) Expanded() int { return n.expanded }

func (n *Node) Terminal() bool { return n.terminal }

// IsFullyExpanded returns true when every candidate move has a child.
func (n *Node) IsFullyExpanded() bool { return n.expanded == len(n.moves) }

// IsValid returns true if the node is live.
func (n *Node) IsValid() bool { return n.status != Invalid }

// uct is the upper confidence bound of the node as seen from a parent with parentVisits visits.
func (n *Node) uct(c float32, parentVisits uint32) float32 {
	if n.visits == 0 {
		panic("cannot compute UCT: 0 visits")
	}
	visits := float32(n.visits)
	return n.value/visits + c*math32.Sqrt(math32.Log(float32(parentVisits))/visits)
}

func (n *Node) reset() {
	n.parent = nilNode
	n.move = game.Pass
	n.state = othello.Board{}
	n.moves = n.moves[:0]
	n.children = n.children[:0]
	n.expanded = 0
	n.visits = 0
	n.value = 0
	n.terminal = false
	n.status = Invalid
}
