// Package mongo reads memory graphs straight from MongoDB.
//
// Memories live in the "notes" collection and connections in
// "memory_links":
//
//	notes:        {_id: int64, content: string, created_at: date}
//	memory_links: {source_note_id: int64, target_note_id: int64,
//	               strength: double, reason: string}
//
// A blank query returns the newest graph.MaxNodes notes. A query matches
// note content case-insensitively, takes up to MatchLimit matches, adds
// notes they link to at or above the threshold, and again keeps the newest
// graph.MaxNodes. Edges are those between returned notes at or above the
// threshold, strongest first.
package mongo

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
)

// Collection names.
const (
	NotesCollection = "notes"
	LinksCollection = "memory_links"
)

// MatchLimit caps how many notes a query matches before neighbours are
// added.
const MatchLimit = 20

// Config locates the database.
type Config struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Source queries the notes and memory_links collections.
type Source struct {
	client *mgo.Client
	notes  *mgo.Collection
	links  *mgo.Collection
	owned  bool
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri and database are required")
	}
	client, err := mgo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.NewFetchError(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.NewFetchError(err, "ping mongo")
	}
	s := New(client.Database(cfg.Database))
	s.client, s.owned = client, true
	return s, nil
}

// New uses an existing database handle. Close is then a no-op.
func New(db *mgo.Database) *Source {
	return &Source{
		client: db.Client(),
		notes:  db.Collection(NotesCollection),
		links:  db.Collection(LinksCollection),
	}
}

// Name returns "mongo:" followed by the database name.
func (s *Source) Name() string { return "mongo:" + s.notes.Database().Name() }

// Fetch runs the note and link queries.
func (s *Source) Fetch(ctx context.Context, req source.Request) (*graph.Data, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := bson.M{}
	if req.Query != "" {
		ids, err := s.queryIDs(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &graph.Data{Nodes: []graph.NodeRecord{}, Edges: []graph.EdgeRecord{}}, nil
		}
		filter = bson.M{"_id": bson.M{"$in": ids}}
	}

	nodes, err := s.findNotes(ctx, filter, graph.MaxNodes)
	if err != nil {
		return nil, err
	}
	out := &graph.Data{Nodes: nodes, Edges: []graph.EdgeRecord{}}
	if len(nodes) == 0 {
		return out, nil
	}

	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	cur, err := s.links.Find(ctx, bson.M{
		"source_note_id": bson.M{"$in": ids},
		"target_note_id": bson.M{"$in": ids},
		"strength":       bson.M{"$gte": req.MinStrength},
	}, options.Find().SetSort(bson.D{{Key: "strength", Value: -1}}))
	if err != nil {
		return nil, errors.NewFetchError(err, "find %s", LinksCollection)
	}
	if err := cur.All(ctx, &out.Edges); err != nil {
		return nil, errors.NewFetchError(err, "decode %s", LinksCollection)
	}
	return out, nil
}

// queryIDs returns the matching notes plus the notes they link to.
func (s *Source) queryIDs(ctx context.Context, req source.Request) ([]int64, error) {
	matches, err := s.findNotes(ctx, bson.M{
		"content": primitive.Regex{Pattern: regexp.QuoteMeta(req.Query), Options: "i"},
	}, MatchLimit)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	seen := make(map[int64]bool, len(matches))
	ids := make([]int64, 0, len(matches))
	for _, n := range matches {
		seen[n.ID] = true
		ids = append(ids, n.ID)
	}

	cur, err := s.links.Find(ctx, bson.M{
		"source_note_id": bson.M{"$in": ids},
		"strength":       bson.M{"$gte": req.MinStrength},
	})
	if err != nil {
		return nil, errors.NewFetchError(err, "find %s", LinksCollection)
	}
	var links []graph.EdgeRecord
	if err := cur.All(ctx, &links); err != nil {
		return nil, errors.NewFetchError(err, "decode %s", LinksCollection)
	}
	for _, l := range links {
		if !seen[l.Target] {
			seen[l.Target] = true
			ids = append(ids, l.Target)
		}
	}
	return ids, nil
}

func (s *Source) findNotes(ctx context.Context, filter bson.M, n int64) ([]graph.NodeRecord, error) {
	cur, err := s.notes.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(n))
	if err != nil {
		return nil, errors.NewFetchError(err, "find %s", NotesCollection)
	}
	nodes := []graph.NodeRecord{}
	if err := cur.All(ctx, &nodes); err != nil {
		return nil, errors.NewFetchError(err, "decode %s", NotesCollection)
	}
	return nodes, nil
}

// Close disconnects a client opened by Connect.
func (s *Source) Close(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var (
	_ source.Source = (*Source)(nil)
	_ source.Closer = (*Source)(nil)
)
