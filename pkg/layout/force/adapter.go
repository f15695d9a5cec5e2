package force

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/observability"
)

// Report describes what BuildGraph did with entries it could not use as-is.
type Report struct {
	// Rejected lists edges dropped individually.
	Rejected []errors.Issue
	// Merged lists reverse duplicates folded into an existing edge. The
	// surviving edge keeps the larger strength.
	Merged []graph.EdgeRecord
}

// Err aggregates the rejected entries into one error, or returns nil when
// nothing was rejected.
func (r *Report) Err() error {
	if r == nil || len(r.Rejected) == 0 {
		return nil
	}
	return &errors.ValidationError{Issues: r.Rejected}
}

// BuildGraph converts wire records into a fresh simulation state.
//
// Records are copied; the returned state holds no reference to the input
// slices. A duplicate node id invalidates the whole input and returns a
// *errors.ValidationError with no state. Edges that are self-loops, point
// at a missing node, or carry a strength outside (0, 1] are dropped and
// listed in the report. Edges are undirected: when both (a, b) and (b, a)
// appear only one survives.
//
// Nodes start on a phyllotaxis spiral around the canvas centre, so no two
// nodes share a position.
func BuildGraph(nodes []graph.NodeRecord, edges []graph.EdgeRecord, cfg Config) (*State, *Report, error) {
	cfg = cfg.WithDefaults()

	index := make(map[int64]int, len(nodes))
	var dups []errors.Issue
	for i, n := range nodes {
		if _, ok := index[n.ID]; ok {
			dups = append(dups, errors.Issue{Kind: errors.IssueDuplicateNode, NodeID: n.ID})
			continue
		}
		index[n.ID] = i
	}
	if len(dups) > 0 {
		return nil, nil, &errors.ValidationError{Issues: dups}
	}

	st := &State{
		ID:    uuid.New(),
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
		Alpha: 1,
		index: index,
	}
	cx, cy := cfg.Center()
	for i, n := range nodes {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		st.Nodes[i] = Node{
			ID:        n.ID,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
			X:         cx + r*math.Cos(a),
			Y:         cy + r*math.Sin(a),
		}
	}

	report := &Report{}
	seen := make(map[[2]int]int, len(edges))
	for _, e := range edges {
		if issue, ok := checkEdge(e, index); !ok {
			report.Rejected = append(report.Rejected, issue)
			continue
		}
		s, t := index[e.Source], index[e.Target]
		key := [2]int{min(s, t), max(s, t)}
		if at, ok := seen[key]; ok {
			if e.Strength > st.Edges[at].Strength {
				st.Edges[at].Strength = e.Strength
				if e.Reason != "" {
					st.Edges[at].Reason = e.Reason
				}
			}
			report.Merged = append(report.Merged, e)
			continue
		}
		seen[key] = len(st.Edges)
		st.Edges = append(st.Edges, Edge{
			Source:   s,
			Target:   t,
			SourceID: e.Source,
			TargetID: e.Target,
			Strength: e.Strength,
			Reason:   e.Reason,
		})
	}

	if len(st.Nodes) == 0 {
		st.Alpha = 0
	}
	observability.Simulation().OnBuild(st.ID.String(), len(st.Nodes), len(st.Edges), len(report.Rejected))
	return st, report, nil
}

func checkEdge(e graph.EdgeRecord, index map[int64]int) (errors.Issue, bool) {
	issue := errors.Issue{Source: e.Source, Target: e.Target, Strength: e.Strength}
	switch {
	case e.Source == e.Target:
		issue.Kind = errors.IssueSelfLoop
	case !hasNode(index, e.Source) || !hasNode(index, e.Target):
		issue.Kind = errors.IssueDanglingEdge
	case math.IsNaN(e.Strength) || math.IsInf(e.Strength, 0) || e.Strength <= 0 || e.Strength > 1:
		issue.Kind = errors.IssueInvalidStrength
	default:
		return issue, true
	}
	return issue, false
}

func hasNode(index map[int64]int, id int64) bool {
	_, ok := index[id]
	return ok
}
