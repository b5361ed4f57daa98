package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/livelayout/internal/cli"
	"github.com/matzehuels/livelayout/pkg/graph"
	"github.com/matzehuels/livelayout/pkg/observability"
)

func writeGraph(t *testing.T) string {
	t.Helper()
	g := graph.NewNetwork()
	for _, id := range []string{"a", "b"} {
		if err := g.AddNode(id); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(graph.Edge{From: "a", To: "b"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := graph.WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	return path
}

func TestRunExitStatus(t *testing.T) {
	path := writeGraph(t)

	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr string
	}{
		{"place", []string{"place", path, "--strategy", "origin", "--json"}, cli.ExitOK, ""},
		{"unknown strategy", []string{"place", path, "--strategy", "spiral"}, cli.ExitUsage, "spiral"},
		{"negative radius", []string{"place", path, "--radius", "-1"}, cli.ExitUsage, "radius"},
		{"missing graph", []string{"place", filepath.Join(t.TempDir(), "nope.json")}, cli.ExitNoInput, "nope.json"},
		{"unknown command", []string{"layout"}, cli.ExitFailure, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(observability.Reset)
			var stderr bytes.Buffer
			if got := run(context.Background(), tt.args, &stderr); got != tt.want {
				t.Errorf("exit status = %d, want %d (stderr %q)", got, tt.want, stderr.String())
			}
			if tt.wantErr == "" {
				if strings.Contains(stderr.String(), "Error:") {
					t.Errorf("unexpected error output %q", stderr.String())
				}
				return
			}
			if !strings.Contains(stderr.String(), "Error:") || !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr %q lacks error mentioning %q", stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRunInterruptedIsQuiet(t *testing.T) {
	t.Cleanup(observability.Reset)
	path := writeGraph(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	if got := run(ctx, []string{"run", path, "--duration", "1m"}, &stderr); got != cli.ExitInterrupted {
		t.Errorf("exit status = %d, want %d", got, cli.ExitInterrupted)
	}
	if strings.Contains(stderr.String(), "Error:") {
		t.Errorf("interrupted run printed %q", stderr.String())
	}
}
