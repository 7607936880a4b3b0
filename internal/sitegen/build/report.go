package build

import (
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gamerank/sitegen/internal/sitegen/reconcile"
)

// Counts tallies the outcomes of one stage.
type Counts struct {
	Updated   int
	Unchanged int
	Removed   int
	Skipped   int
	Failed    int
}

// Failure is a file that could not be processed.
type Failure struct {
	Stage Stage
	Path  string
	Err   error
}

// Report collects per-stage outcomes. It is safe for concurrent use.
type Report struct {
	RunID string

	mu       sync.Mutex
	order    []Stage
	counts   map[Stage]*Counts
	failures []Failure
}

func newReport(runID string) *Report {
	return &Report{RunID: runID, counts: make(map[Stage]*Counts)}
}

// Record adds one file outcome to stage.
func (r *Report) Record(stage Stage, path string, outcome reconcile.Outcome, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.stage(stage)
	switch outcome {
	case reconcile.Updated:
		c.Updated++
	case reconcile.Unchanged:
		c.Unchanged++
	case reconcile.Removed:
		c.Removed++
	case reconcile.Skipped:
		c.Skipped++
	case reconcile.Failed:
		c.Failed++
		r.failures = append(r.failures, Failure{Stage: stage, Path: path, Err: err})
	}
}

func (r *Report) stage(stage Stage) *Counts {
	c, ok := r.counts[stage]
	if !ok {
		c = &Counts{}
		r.counts[stage] = c
		r.order = append(r.order, stage)
	}
	return c
}

// Counts returns the tallies of stage.
func (r *Report) Counts(stage Stage) Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counts[stage]; ok {
		return *c
	}
	return Counts{}
}

// Failures returns every failed file in the order they were recorded.
func (r *Report) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

// Table renders the summary as a text table, one row per stage.
func (r *Report) Table() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Updated", "Unchanged", "Removed", "Skipped", "Failed"})
	var total Counts
	for _, s := range r.order {
		c := r.counts[s]
		t.AppendRow(table.Row{s, c.Updated, c.Unchanged, c.Removed, c.Skipped, c.Failed})
		total.Updated += c.Updated
		total.Unchanged += c.Unchanged
		total.Removed += c.Removed
		total.Skipped += c.Skipped
		total.Failed += c.Failed
	}
	t.AppendFooter(table.Row{"Total", total.Updated, total.Unchanged, total.Removed, total.Skipped, total.Failed})
	return t.Render()
}
