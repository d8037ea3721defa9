package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getsentry/callcount/internal/callcount"
	"github.com/getsentry/callcount/internal/cost"
	"github.com/getsentry/callcount/internal/ingest"
	"github.com/getsentry/callcount/internal/report"
	"github.com/getsentry/callcount/internal/testutil"
)

const events = `{"name":"Parser::Parse","costs":[300]}
{"name":"Renderer::Draw","costs":[90],"count":3}
{"name":"Parser::Parse","costs":[100]}
`

func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func expectedReporter(t *testing.T) *report.Reporter {
	t.Helper()
	c := cost.DefaultConfig()
	r := callcount.NewRegistry(c)
	if _, err := ingest.Load(r, strings.NewReader(events)); err != nil {
		t.Fatal(err)
	}
	return report.NewReporter(r)
}

func TestReport(t *testing.T) {
	path := writeFile(t, "events.jsonl", events)
	reporter := expectedReporter(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "fixed from file",
			args: []string{"report", path},
			want: reporter.PrintResults(0),
		},
		{
			name:  "fixed from stdin",
			stdin: events,
			args:  []string{"report", "--top", "1"},
			want:  reporter.PrintResults(1),
		},
		{
			name: "wide",
			args: []string{"report", "--layout", "wide", path},
			want: reporter.WidePrint(0),
		},
		{
			name: "pattern",
			args: []string{"report", "--pattern", "Draw$", path},
			want: reporter.FilteredPrint("Draw$", 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, strings.NewReader(tt.stdin), tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := testutil.Diff(got, tt.want); diff != "" {
				t.Fatalf("Result mismatch: got - want +\n%s", diff)
			}
		})
	}
}

func TestReportErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{
			name:  "unknown layout",
			stdin: events,
			args:  []string{"report", "--layout", "tall"},
		},
		{
			name:  "invalid event",
			stdin: `{"name":"a","costs":[1,2]}`,
			args:  []string{"report"},
		},
		{
			name: "missing file",
			args: []string{"report", filepath.Join(t.TempDir(), "missing.jsonl")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, strings.NewReader(tt.stdin), tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestReportWithConfig(t *testing.T) {
	config := writeFile(t, "costs.yaml", "dimensions: [usecs, allocs]\ndisplay: [1]\n")
	got, err := run(t, strings.NewReader(`{"name":"a","costs":[10,4],"count":2}`), "report", "--config", config, "--layout", "wide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := cost.MustConfig([]string{"usecs", "allocs"}, 1)
	r := callcount.NewRegistry(c)
	r.AddCall("a", c.MustVector(10, 4), 2)
	want := report.NewReporter(r).WidePrint(0)
	if diff := testutil.Diff(got, want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestSnapshot(t *testing.T) {
	bucket := "file://" + t.TempDir()
	path := writeFile(t, "events.jsonl", events)

	out, err := run(t, nil, "snapshot", "save", "--bucket", bucket, "--object", "snapshots/test", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := testutil.Diff(strings.TrimSpace(out), "snapshots/test"); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}

	got, err := run(t, nil, "snapshot", "report", "--bucket", bucket, "--object", "snapshots/test", "--layout", "wide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := testutil.Diff(got, expectedReporter(t).WidePrint(0)); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}

	if _, err := run(t, nil, "snapshot", "report", "--bucket", bucket, "--object", "snapshots/missing"); err == nil {
		t.Fatal("expected an error for a missing snapshot")
	}
}

func TestPush(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/calls" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		received, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"accepted":3}`))
	}))
	defer server.Close()

	if _, err := run(t, strings.NewReader(events), "push", "--url", server.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := testutil.Diff(string(received), events); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestPushRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "event 1: data integrity error", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := run(t, strings.NewReader(events), "push", "--url", server.URL, "--retries", "0")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected the status in the error, got %v", err)
	}
}
