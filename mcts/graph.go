package mcts

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/awalterschulze/gographviz"

	"github.com/gorgonia/reversi/game"
	"github.com/gorgonia/reversi/game/othello"
)

type statefulNode struct {
	*Node
}

func (s statefulNode) Square() string { return othello.SquareString(s.move) }

func (s statefulNode) ToMove() game.Player { return s.state.Next }

func (s statefulNode) State() string {
	var buf bytes.Buffer
	for i := 0; i < othello.NumSquares; i++ {
		if i%othello.Size == 0 {
			fmt.Fprint(&buf, "⎢ ")
		}
		fmt.Fprintf(&buf, "%s ", s.state.At(game.Single(i)))
		if (i+1)%othello.Size == 0 {
			fmt.Fprint(&buf, "⎥<BR />")
		}
	}
	return buf.String()
}

// ToDot renders the live nodes of the tree as a Graphviz digraph.
func (t *MCTS) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.IsValid() {
			continue
		}
		if err := tmpl.Execute(&buf, statefulNode{n}); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		if err := g.AddNode("G", fmt.Sprintf("%v", n.id), attrs); err != nil {
			panic(err)
		}
		buf.Reset()
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.IsValid() {
			continue
		}
		kids := make([]naughty, 0, len(n.children))
		for _, kid := range n.children {
			if kid.isValid() {
				kids = append(kids, kid)
			}
		}
		sort.Sort(byMove{l: kids, t: t})
		for _, kid := range kids {
			if err := g.AddEdge(fmt.Sprintf("%v", n.id), fmt.Sprintf("%v", kid), true, nil); err != nil {
				panic(err)
			}
		}
	}
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Move</TD><TD>{{.Square}}</TD></TR>
<TR><TD>To Move</TD><TD>{{printf "%v" .ToMove}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Value</TD><TD>{{.Value}}</TD></TR>
<TR><TD>Mean</TD><TD>{{.Mean}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
