package mcts

import (
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

// Config is the structure to configure the MCTS tree.
type Config struct {
	Seed       uint64 // seed of the tree's random source. 0 seeds from the clock
	DebugEvery int    // report telemetry every DebugEvery iterations. 0 disables it
	Capacity   int    // initial number of node slots in the arena

	Logger    zerolog.Logger
	Telemetry func(Telemetry) // optional, called alongside the debug log
}

func DefaultConfig() Config {
	return Config{
		Capacity: 12288,
		Logger:   zerolog.Nop(),
	}
}

func (c Config) IsValid() bool {
	return c.DebugEvery >= 0 && c.Capacity >= 0
}

// MCTS owns the arena that every node of a search lives in. Nodes refer to
// each other by index so the tree can be torn down without pointer chasing.
//
// MCTS is not safe for concurrent use. Run one tree per goroutine.
type MCTS struct {
	Config
	rand *rand.Rand

	// memory related fields
	nodes    []Node
	freelist []naughty
	nc       int // live nodes

	root naughty
	lumberjack
}

// New creates a tree with an empty arena.
func New(conf Config) *MCTS {
	seed := conf.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &MCTS{
		Config:     conf,
		rand:       rand.New(rand.NewSource(seed)),
		nodes:      make([]Node, 0, conf.Capacity),
		root:       nilNode,
		lumberjack: makeLumberJack(conf.Logger, conf.Telemetry),
	}
}

// Nodes returns the number of live nodes.
func (t *MCTS) Nodes() int { return t.nc }

// Root returns the root of the last search, or nil if there is none.
func (t *MCTS) Root() *Node {
	if !t.root.isValid() {
		return nil
	}
	return t.nodeFromNaughty(t.root)
}

// Child returns the i-th child of n, or nil if it was never expanded or has been released.
func (t *MCTS) Child(n *Node, i int) *Node {
	if i < 0 || i >= len(n.children) || !n.children[i].isValid() {
		return nil
	}
	return t.nodeFromNaughty(n.children[i])
}

// Parent returns the parent of n, or nil for the root.
func (t *MCTS) Parent(n *Node) *Node {
	if !n.parent.isValid() {
		return nil
	}
	return t.nodeFromNaughty(n.parent)
}

func (t *MCTS) nodeFromNaughty(n naughty) *Node { return &t.nodes[int(n)] }

// alloc tries to get a node from the free list. If none is found a new node is allocated into the master arena.
//
// Appending may move the arena, so every *Node taken before alloc must be fetched again.
func (t *MCTS) alloc() naughty {
	t.nc++
	l := len(t.freelist)
	if l == 0 {
		t.nodes = append(t.nodes, Node{id: naughty(len(t.nodes)), parent: nilNode})
		return naughty(len(t.nodes) - 1)
	}
	i := t.freelist[l-1]
	t.freelist = t.freelist[:l-1]
	return i
}

// free puts the node back into the freelist.
//
// Nothing tracks references to n, so the caller has to make sure nothing points at it any more.
func (t *MCTS) free(n naughty) {
	N := t.nodeFromNaughty(n)
	if !N.IsValid() {
		return
	}
	N.reset()
	t.freelist = append(t.freelist, n)
	t.nc--
}

// newNode allocates a node for state, reached from parent by move.
// Terminal positions get no candidate moves. If the side to move has to pass, the node stores the passed position.
func (t *MCTS) newNode(parent naughty, move game.Single, state othello.Board) naughty {
	id := t.alloc()
	N := t.nodeFromNaughty(id)
	N.parent = parent
	N.move = move
	N.state = state
	N.status = Active

	switch state.Classify() {
	case othello.GameOver:
		N.terminal = true
		return id
	case othello.Pass:
		N.state = state.Passed()
	}

	N.moves = append(N.moves[:0], N.state.LegalMoves()...)
	t.rand.Shuffle(len(N.moves), func(i, j int) {
		N.moves[i], N.moves[j] = N.moves[j], N.moves[i]
	})
	N.children = N.children[:0]
	for range N.moves {
		N.children = append(N.children, nilNode)
	}
	return id
}

// Release frees n and all of its descendants. The slot that n occupies in its parent is cleared first.
// Releasing the root empties the tree.
func (t *MCTS) Release(n *Node) {
	if n == nil || !n.IsValid() {
		return
	}
	t.release(n.id)
}

func (t *MCTS) release(of naughty) {
	N := t.nodeFromNaughty(of)
	if N.parent.isValid() {
		parent := t.nodeFromNaughty(N.parent)
		for i, kid := range parent.children {
			if kid == of {
				parent.children[i] = nilNode
				break
			}
		}
	}
	if of == t.root {
		t.root = nilNode
	}

	// pre-order walk, then free back to front so children go before their parents
	order := make([]naughty, 0, 64)
	stack := []naughty{of}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, cur)
		for _, kid := range t.nodeFromNaughty(cur).children {
			if kid.isValid() {
				stack = append(stack, kid)
			}
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		t.free(order[i])
	}
}

// Reset drops every node. The arena keeps its capacity for the next search.
func (t *MCTS) Reset() {
	for i := range t.nodes {
		t.nodes[i].reset()
	}
	t.nodes = t.nodes[:0]
	t.freelist = t.freelist[:0]
	t.nc = 0
	t.root = nilNode
}

// MemoryUsage is an estimate of the bytes held by the arena, counting the move and child slices of every slot.
func (t *MCTS) MemoryUsage() int {
	var (
		nodeSize   = int(unsafe.Sizeof(Node{}))
		singleSize = int(unsafe.Sizeof(game.Single(0)))
		idxSize    = int(unsafe.Sizeof(naughty(0)))
	)
	retVal := nodeSize*cap(t.nodes) + idxSize*cap(t.freelist)
	for i := range t.nodes {
		retVal += singleSize*cap(t.nodes[i].moves) + idxSize*cap(t.nodes[i].children)
	}
	return retVal
}
