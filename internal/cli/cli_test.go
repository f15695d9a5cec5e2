package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
	"github.com/matzehuels/memgraph/pkg/source/api"
	"github.com/matzehuels/memgraph/pkg/source/file"
)

func TestRootCommandStructure(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	for _, name := range []string{"view", "render", "fetch", "serve", "cache", "config", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestSourceFlagsApply(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantKind  string
		wantMin   float64
		wantQuery string
		wantCache string
		wantErr   bool
	}{
		{name: "config defaults", wantKind: config.SourceAPI, wantMin: 0.75, wantCache: config.CacheFile},
		{name: "file implies file source", args: []string{"-f", "g.json"}, wantKind: config.SourceFile, wantMin: 0.75, wantCache: config.CacheFile},
		{name: "explicit source wins", args: []string{"--source", "sample", "-f", "g.json"}, wantKind: config.SourceSample, wantMin: 0.75, wantCache: config.CacheFile},
		{name: "query and strength", args: []string{"-q", "deploy", "--min-strength", "0.9"}, wantKind: config.SourceAPI, wantMin: 0.9, wantQuery: "deploy", wantCache: config.CacheFile},
		{name: "explicit zero keeps every link", args: []string{"--min-strength", "0"}, wantKind: config.SourceAPI, wantMin: source.AnyStrength, wantCache: config.CacheFile},
		{name: "no cache", args: []string{"--no-cache"}, wantKind: config.SourceAPI, wantMin: 0.75, wantCache: config.CacheNone},
		{name: "strength out of range", args: []string{"--min-strength", "1.5"}, wantErr: true},
		{name: "unknown source", args: []string{"--source", "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sf sourceFlags
			cmd := &cobra.Command{Use: "test"}
			sf.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg := config.Default()
			cfg.Cache.Backend = config.CacheFile
			err := sf.apply(cmd, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.Source.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", cfg.Source.Kind, tt.wantKind)
			}
			if got := cfg.Source.Request().MinStrength; got != tt.wantMin {
				t.Errorf("min strength = %v, want %v", got, tt.wantMin)
			}
			if cfg.Source.Query != tt.wantQuery {
				t.Errorf("query = %q, want %q", cfg.Source.Query, tt.wantQuery)
			}
			if cfg.Cache.Backend != tt.wantCache {
				t.Errorf("cache = %q, want %q", cfg.Cache.Backend, tt.wantCache)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	cfg := config.Default()
	src, err := c.newSource(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*api.Client); !ok {
		t.Errorf("api source = %T", src)
	}

	cfg.Source.Kind, cfg.Source.Path = config.SourceFile, "g.json"
	if src, _ = c.newSource(ctx, cfg); src == nil {
		t.Fatal("file source is nil")
	} else if _, ok := src.(*file.Source); !ok {
		t.Errorf("file source = %T", src)
	}

	cfg.Cache.Backend, cfg.Cache.Dir = config.CacheFile, t.TempDir()
	src, err = c.newSource(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*source.Cached); !ok {
		t.Errorf("cached source = %T", src)
	}

	cfg.Source.Kind = config.SourceSample
	src, err = c.newSource(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*source.Static); !ok {
		t.Errorf("sample source = %T", src)
	}

	cfg.Source.Kind = config.SourceMongo
	cfg.Mongo.URI = ""
	if _, err := c.newSource(ctx, cfg); err == nil {
		t.Error("mongo without a URI should fail")
	}
}

func TestFetchCommandStdout(t *testing.T) {
	got, err := runCommand(t, New(io.Discard, LogInfo), "fetch", "--source", "sample", "-q", "redis", "--min-strength", "0")
	if err != nil {
		t.Fatal(err)
	}
	d, err := graph.Read(strings.NewReader(got))
	if err != nil {
		t.Fatalf("fetch output is not graph JSON: %v\n%s", err, got)
	}
	matched := 0
	for _, n := range d.Nodes {
		if strings.Contains(strings.ToLower(n.Content), "redis") {
			matched++
		}
	}
	if matched == 0 {
		t.Fatalf("no memory mentions redis in %d nodes", d.NodeCount())
	}
}

func TestFetchCommandFile(t *testing.T) {
	quietOutput(t)
	path := filepath.Join(t.TempDir(), "memories.json")
	if _, err := runCommand(t, New(io.Discard, LogInfo), "fetch", "--source", "sample", "-o", path); err != nil {
		t.Fatal(err)
	}
	d, err := graph.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.NodeCount() != 10 || d.EdgeCount() != 8 {
		t.Errorf("fetched %d nodes, %d edges; want 10, 8", d.NodeCount(), d.EdgeCount())
	}

	// The written file feeds the file source.
	got, err := runCommand(t, New(io.Discard, LogInfo), "fetch", "-f", path, "--min-strength", "0.9")
	if err != nil {
		t.Fatal(err)
	}
	again, err := graph.Read(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range again.Edges {
		if e.Strength < 0.9 {
			t.Errorf("edge %d-%d strength %v below 0.9", e.Source, e.Target, e.Strength)
		}
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := runCommand(t, New(io.Discard, LogInfo), "--config", filepath.Join(t.TempDir(), "nope.toml"), "cache", "path")
	if err == nil {
		t.Fatal("a missing --config file should fail")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	quietOutput(t)
	path := filepath.Join(t.TempDir(), "memgraph", "config.toml")

	if _, err := runCommand(t, New(io.Discard, LogInfo), "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := runCommand(t, New(io.Discard, LogInfo), "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[source]", "[layout]", "min_strength = 0.75"} {
		if !strings.Contains(got, want) {
			t.Errorf("config show missing %q", want)
		}
	}
}

func TestServerSource(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	src, err := serverSource(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != "static" {
		t.Errorf("default server source = %q, want static", src.Name())
	}

	cfg.Server.Data = "memories.json"
	if src, _ = serverSource(ctx, cfg, false); src.Name() != "file:memories.json" {
		t.Errorf("data server source = %q", src.Name())
	}

	cfg.Mongo.URI = ""
	if _, err := serverSource(ctx, cfg, true); err == nil {
		t.Error("mongo without a URI should fail")
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8000":        ":8000",
		"0.0.0.0:9000": ":9000",
		"localhost:80": ":80",
		"no-port":      "",
		"[::1]:8000":   ":8000",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
