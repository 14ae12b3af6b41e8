package mcts

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

var (
	Black = game.Player(game.Black)
	White = game.Player(game.White)
)

func sq(i int) uint64 { return uint64(1) << uint(i) }

func testTree() *MCTS {
	conf := DefaultConfig()
	conf.Seed = 1337
	return New(conf)
}

// nearFull is a board where black's only move is f8, which fills the board.
func nearFull() othello.Board {
	var full uint64 = 0xFFFFFFFFFFFFFFFF
	return othello.Board{
		Black: full &^ (sq(61) | sq(62)),
		White: sq(62),
		Next:  Black,
	}
}

func TestConfig(t *testing.T) {
	assert.True(t, DefaultConfig().IsValid())
	conf := DefaultConfig()
	conf.DebugEvery = -1
	assert.False(t, conf.IsValid())
}

func TestNode_uct(t *testing.T) {
	n := &Node{visits: 4, value: 2}
	correct := 0.5 + 1.4*math.Sqrt(math.Log(16)/4)
	assert.InDelta(t, correct, float64(n.uct(1.4, 16)), 1e-5)

	// an unexplored parent contributes no exploration term
	assert.InDelta(t, 0.5, float64(n.uct(1.4, 1)), 1e-6)

	unvisited := &Node{}
	assert.Panics(t, func() { unvisited.uct(1.4, 16) })
}

func TestMCTS_Search_BudgetOne(t *testing.T) {
	assert := assert.New(t)
	tree := testTree()
	move, err := tree.Search(othello.New(), 1.4, Black, 1)
	require.NoError(t, err)

	assert.Equal(2, tree.Nodes())
	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(1, root.Expanded())
	assert.Len(root.Moves(), 4)
	assert.Equal(uint32(1), root.Visits())
	assert.Equal(0, tree.BestIndex())

	child := tree.Child(root, 0)
	require.NotNil(t, child)
	assert.Equal(child.Move(), move)
	assert.Contains([]game.Single{19, 26, 37, 44}, move)
	assert.Equal(root, tree.Parent(child))
	assert.Nil(tree.Parent(root))
	assert.Nil(tree.Child(root, 1))
}

func TestMCTS_Search_NodeBound(t *testing.T) {
	assert := assert.New(t)
	tree := testTree()
	for _, budget := range []int{1, 10, 100, 500} {
		_, err := tree.Search(othello.New(), 1.4, Black, budget)
		require.NoError(t, err)
		assert.True(tree.Nodes() <= budget+1, "budget %d: %d nodes", budget, tree.Nodes())
		assert.Equal(uint32(budget), tree.Root().Visits())

		tree.Release(tree.Root())
		assert.Equal(0, tree.Nodes(), "budget %d", budget)
		assert.Nil(tree.Root())
		assert.Equal(-1, tree.BestIndex())
	}

	_, err := tree.Search(othello.New(), 1.4, White, 200)
	require.NoError(t, err)
	assert.True(tree.MemoryUsage() > 0)
	tree.Reset()
	assert.Equal(0, tree.Nodes())
	assert.Nil(tree.Root())
}

// checkVisits walks the live tree and checks the visit bookkeeping.
func checkVisits(t *testing.T, tree *MCTS) {
	for i := range tree.nodes {
		N := &tree.nodes[i]
		if !N.IsValid() {
			continue
		}
		assert.True(t, N.value >= 0 && N.value <= float32(N.visits), "%v", N)
		if N.terminal {
			assert.Empty(t, N.moves)
			assert.Empty(t, N.children)
			continue
		}
		assert.Equal(t, len(N.moves), len(N.children))

		var sum uint32
		for j, kid := range N.children {
			if j >= N.expanded {
				assert.Equal(t, nilNode, kid)
				continue
			}
			child := tree.nodeFromNaughty(kid)
			assert.True(t, child.visits >= 1, "child %v of %v", child, N)
			assert.Equal(t, N.moves[j], child.move)
			assert.Equal(t, N.id, child.parent)
			sum += child.visits
		}
		if N.id == tree.root {
			assert.Equal(t, N.visits, sum)
		} else {
			// a node is simulated once when it is created
			assert.Equal(t, N.visits, sum+1)
		}
	}
}

func TestMCTS_Search_Visits(t *testing.T) {
	tree := testTree()
	_, err := tree.Search(othello.New(), 1.4, Black, 1000)
	require.NoError(t, err)
	checkVisits(t, tree)

	// a midgame position
	b, _, err := othello.ParseGame("f5d6c3d3c4")
	require.NoError(t, err)
	_, err = tree.Search(b, 0.7, b.Next, 1000)
	require.NoError(t, err)
	checkVisits(t, tree)
}

func TestMCTS_Search_SingleMove(t *testing.T) {
	tree := testTree()
	move, err := tree.Search(nearFull(), 1.4, Black, 10)
	require.NoError(t, err)
	assert.Equal(t, game.Single(61), move)

	child := tree.Child(tree.Root(), 0)
	require.NotNil(t, child)
	assert.True(t, child.Terminal())
	assert.Equal(t, uint32(10), child.Visits())
	assert.Equal(t, float32(10), child.Value())
}

func TestMCTS_Search_RootStatus(t *testing.T) {
	assert := assert.New(t)
	tree := testTree()

	move, err := tree.Search(othello.Board{Black: sq(1), White: sq(0), Next: Black}, 1.4, Black, 10)
	assert.NoError(err)
	assert.Equal(game.Pass, move)

	_, err = tree.Search(othello.Board{Black: sq(0), Next: White}, 1.4, White, 10)
	assert.Equal(ErrNoMoves, errors.Cause(err))

	_, err = tree.Search(othello.New(), 1.4, Black, 0)
	assert.Error(err)
	assert.Equal(0, tree.Nodes())

	_, err = tree.Search(othello.New(), 1.4, game.Player(game.None), 10)
	assert.Error(err)
	assert.Equal(0, tree.Nodes())
}

func TestMCTS_TieBreaks(t *testing.T) {
	testCases := []struct {
		name   string
		visits [4]uint32
		value  [4]float32
		sel    int // index of the child that selection descends into
		best   int
	}{
		{"all equal", [4]uint32{2, 2, 2, 2}, [4]float32{1, 1, 1, 1}, 0, 0},
		{"later child scores higher", [4]uint32{2, 2, 2, 2}, [4]float32{1, 1, 2, 1}, 2, 0},
		{"later child visited more", [4]uint32{2, 2, 2, 3}, [4]float32{1, 1, 1, 1.5}, 0, 3},
		{"two children visited most", [4]uint32{2, 3, 2, 3}, [4]float32{1, 1.5, 1, 1.5}, 0, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree := testTree()
			tree.root = tree.newNode(nilNode, game.Pass, othello.New())
			for i := 0; i < 4; i++ {
				tree.expand(tree.root)
			}
			root := tree.Root()
			require.True(t, root.IsFullyExpanded())

			var total uint32
			for i, kid := range root.children {
				N := tree.nodeFromNaughty(kid)
				N.visits, N.value = tc.visits[i], tc.value[i]
				total += tc.visits[i]
			}
			root.visits = total

			assert.Equal(t, root.children[tc.sel], tree.selectNode(1.4))
			assert.Equal(t, tc.best, tree.BestIndex())
		})
	}
}

func TestMCTS_newNode(t *testing.T) {
	assert := assert.New(t)
	tree := testTree()

	// black has to pass, so the node holds the position with white to move
	id := tree.newNode(nilNode, 5, othello.Board{Black: sq(1), White: sq(0), Next: Black})
	N := tree.nodeFromNaughty(id)
	assert.Equal(White, N.state.Next)
	assert.Equal([]game.Single{2}, N.moves)
	assert.Equal([]naughty{nilNode}, N.children)
	assert.False(N.terminal)

	id = tree.newNode(nilNode, 61, nearFull().Apply(61))
	N = tree.nodeFromNaughty(id)
	assert.True(N.terminal)
	assert.Empty(N.moves)
	assert.Equal(2, tree.Nodes())
}

func TestMCTS_simulate(t *testing.T) {
	assert := assert.New(t)
	tree := testTree()
	for i := 0; i < 100; i++ {
		o := tree.simulate(othello.New(), Black)
		assert.Contains([]float32{0, 0.5, 1}, o)
	}

	allBlack := othello.Board{Black: 0xFFFFFFFFFFFFFFFF}
	assert.Equal(float32(1), tree.simulate(allBlack, Black))
	assert.Equal(float32(0), tree.simulate(allBlack, White))

	draw := othello.Board{Black: 0x00000000FFFFFFFF, White: 0xFFFFFFFF00000000}
	assert.Equal(float32(0.5), tree.simulate(draw, Black))
	assert.Equal(float32(0.5), tree.simulate(draw, White))
}

func TestMCTS_Release(t *testing.T) {
	assert := assert.New(t)
	tree := testTree()
	_, err := tree.Search(othello.New(), 1.4, Black, 300)
	require.NoError(t, err)
	root := tree.Root()
	require.True(t, root.IsFullyExpanded())

	before := tree.Nodes()
	kid := root.children[0]
	size := tree.subtreeSize(kid)
	tree.Release(tree.Child(root, 0))
	root = tree.Root()
	assert.Equal(before-size, tree.Nodes())
	assert.Equal(nilNode, root.children[0])
	assert.False(tree.nodes[kid].IsValid())

	// releasing twice is a no-op
	tree.Release(&tree.nodes[kid])
	assert.Equal(before-size, tree.Nodes())

	for i := 1; i < len(root.children); i++ {
		tree.Release(tree.Child(root, i))
		root = tree.Root()
	}
	assert.Equal(1, tree.Nodes())
	assert.Equal(tree.root, tree.selectNode(1.4))
	assert.Equal(-1, tree.BestIndex())

	visits := root.Visits()
	tree.iterate(1.4, Black)
	assert.Equal(visits+1, tree.Root().Visits())
	assert.Equal(1, tree.Nodes())

	// freed slots are handed out again
	id := tree.alloc()
	assert.True(int(id) < len(tree.nodes))
}

func (t *MCTS) subtreeSize(of naughty) int {
	retVal := 1
	for _, kid := range t.nodeFromNaughty(of).children {
		if kid.isValid() {
			retVal += t.subtreeSize(kid)
		}
	}
	return retVal
}

func TestMCTS_Deterministic(t *testing.T) {
	b, _, err := othello.ParseGame("f5d6c3")
	require.NoError(t, err)

	a, c := testTree(), testTree()
	m1, err := a.Search(b, 1.4, b.Next, 500)
	require.NoError(t, err)
	m2, err := c.Search(b, 1.4, b.Next, 500)
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
	assert.Equal(t, a.RootStats(), c.RootStats())
}

func TestMCTS_RootStats(t *testing.T) {
	tree := testTree()
	move, err := tree.Search(othello.New(), 1.4, Black, 400)
	require.NoError(t, err)

	stats := tree.RootStats()
	require.Len(t, stats, 4)
	assert.Equal(t, move, stats[0].Move)
	var total uint32
	for i, s := range stats {
		if i > 0 {
			assert.True(t, stats[i-1].Visits >= s.Visits)
		}
		total += s.Visits
	}
	assert.Equal(t, uint32(400), total)
}

func TestMCTS_Telemetry(t *testing.T) {
	conf := DefaultConfig()
	conf.Seed = 1
	conf.DebugEvery = 10
	var got []Telemetry
	conf.Telemetry = func(tel Telemetry) { got = append(got, tel) }
	tree := New(conf)

	_, err := tree.Search(othello.New(), 1.4, Black, 55)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, tel := range got {
		assert.Equal(t, (i+1)*10, tel.Iteration)
		assert.True(t, tel.Nodes > 1 && tel.Nodes <= tel.Iteration+1)
		assert.True(t, tel.Bytes > 0)
	}
}

func TestMCTS_ToDot(t *testing.T) {
	tree := testTree()
	_, err := tree.Search(othello.New(), 1.4, Black, 20)
	require.NoError(t, err)
	dot := tree.ToDot()
	assert.Contains(t, dot, "digraph G")
	assert.Contains(t, dot, "->")
	assert.Contains(t, dot, "Visits")
}
