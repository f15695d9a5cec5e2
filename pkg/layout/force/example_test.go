package force_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/layout/force"
)

func ExampleBuildGraph() {
	nodes := []graph.NodeRecord{
		{ID: 1, Content: "Coffee tasting notes"},
		{ID: 2, Content: "Espresso grind size"},
	}
	edges := []graph.EdgeRecord{
		{Source: 1, Target: 2, Strength: 0.9},
		{Source: 2, Target: 1, Strength: 0.9}, // stored twice upstream
		{Source: 1, Target: 3, Strength: 0.8}, // node 3 is not in the snapshot
	}

	st, report, err := force.BuildGraph(nodes, edges, force.Config{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("nodes:", len(st.Nodes))
	fmt.Println("edges:", len(st.Edges))
	fmt.Println("merged:", len(report.Merged))
	fmt.Println(report.Err())
	// Output:
	// nodes: 2
	// edges: 1
	// merged: 1
	// INVALID_GRAPH: edge 1-3 references a missing node
}

func ExampleEngine_RunUntilSettled() {
	st, _, _ := force.BuildGraph(
		[]graph.NodeRecord{{ID: 1}, {ID: 2}, {ID: 3}},
		[]graph.EdgeRecord{{Source: 1, Target: 2, Strength: 1}, {Source: 2, Target: 3, Strength: 0.8}},
		force.Config{},
	)
	eng := force.NewEngine(st, force.Config{})
	if _, err := eng.RunUntilSettled(context.Background(), 0); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("settled:", eng.Settled())
	// Output:
	// settled: true
}
