package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/julienschmidt/httprouter"
	jsoniter "github.com/json-iterator/go"

	"github.com/getsentry/callcount/internal/errorutil"
	"github.com/getsentry/callcount/internal/httputil"
	"github.com/getsentry/callcount/internal/ingest"
	"github.com/getsentry/callcount/internal/report"
	"github.com/getsentry/callcount/internal/snapshot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	postCallsResponse struct {
		Accepted int `json:"accepted"`
	}

	getFunctionResponse struct {
		Name     string  `json:"name"`
		Calls    int64   `json:"calls"`
		Costs    []int64 `json:"costs"`
		Averages []int64 `json:"averages"`
	}

	postSnapshotResponse struct {
		Object    string `json:"object"`
		Functions int    `json:"functions"`
	}
)

func (e *environment) postCalls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	var events []ingest.Event
	s := sentry.StartSpan(ctx, "processing")
	s.Description = "Decoding events"
	err := ingest.Decode(r.Body, func(ev ingest.Event) error {
		events = append(events, ev)
		return nil
	})
	s.Finish()
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Every event is checked before any is applied, a rejected batch leaves
	// the registry untouched.
	calls := make([]ingest.Call, 0, len(events))
	for i, ev := range events {
		call, err := ingest.Prepare(e.config.Costs, ev)
		if err != nil {
			http.Error(w, fmt.Sprintf("event %d: %v", i+1, err), http.StatusBadRequest)
			return
		}
		calls = append(calls, call)
	}

	e.mu.Lock()
	for _, call := range calls {
		call.ApplyTo(e.registry)
	}
	e.mu.Unlock()

	writeJSON(w, r, http.StatusOK, postCallsResponse{Accepted: len(calls)})
}

func (e *environment) getReport(w http.ResponseWriter, r *http.Request) {
	logger := httputil.RequestLogger(r, "layout", "pattern", "top")

	top, err := httputil.GetOptionalIntQueryParameter(r, "top", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query := r.URL.Query()
	layout := query.Get("layout")
	patternText := query.Get("pattern")

	e.mu.Lock()
	reporter := report.NewReporter(e.registry)
	var out string
	switch {
	case patternText != "":
		out = reporter.FilteredPrint(patternText, top)
	case layout == "wide":
		out = reporter.WidePrint(top)
	case layout == "" || layout == "fixed":
		out = reporter.PrintResults(top)
	default:
		e.mu.Unlock()
		http.Error(w, fmt.Sprintf("unknown layout %q", layout), http.StatusBadRequest)
		return
	}
	e.mu.Unlock()

	logger.Debug().Int("bytes", len(out)).Msg("rendered report")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (e *environment) getFunction(w http.ResponseWriter, r *http.Request) {
	ps := httprouter.ParamsFromContext(r.Context())
	name := ps.ByName("name")

	e.mu.Lock()
	rec, ok := e.registry.Peek(name)
	e.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	res := getFunctionResponse{
		Name:     name,
		Calls:    rec.Calls,
		Costs:    rec.Costs.Values(),
		Averages: make([]int64, rec.Costs.Len()),
	}
	for i := range res.Averages {
		res.Averages[i] = rec.Average(i)
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (e *environment) postSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	if e.snapshots == nil {
		http.Error(w, "snapshots are not configured", http.StatusServiceUnavailable)
		return
	}

	e.mu.Lock()
	s := snapshot.FromRegistry(e.registry)
	e.mu.Unlock()

	if len(s.Functions) == 0 {
		http.Error(w, errorutil.ErrNoResults.Error(), http.StatusConflict)
		return
	}

	name := snapshot.NewObjectName()
	span := sentry.StartSpan(ctx, "gcs.write")
	span.Description = "Write snapshot"
	err := snapshot.Write(ctx, e.snapshots, name, s)
	span.Finish()
	if err != nil {
		if hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusCreated, postSnapshotResponse{Object: name, Functions: len(s.Functions)})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
