// Package sample embeds a small memory graph for demos and tests.
package sample

import (
	_ "embed"
	"sync"

	"github.com/matzehuels/memgraph/pkg/graph"
)

//go:embed sample.json
var raw []byte

var (
	once sync.Once
	data *graph.Data
)

// Data returns a copy of the sample graph.
func Data() *graph.Data {
	once.Do(func() {
		d, err := graph.Unmarshal(raw)
		if err != nil {
			panic("sample: " + err.Error())
		}
		data = d
	})
	return &graph.Data{
		Nodes: append([]graph.NodeRecord(nil), data.Nodes...),
		Edges: append([]graph.EdgeRecord(nil), data.Edges...),
	}
}
