package closure

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ClusterSpec names one cluster and the seed codes whose combined closure
// forms it. Exclude lists codes that must never enter the closure, matching
// the exceptions mechanism of the reference exports.
type ClusterSpec struct {
	ID      string
	Seeds   []Code
	Exclude []Code
}

// Row is one (cluster, code) output pair with its annotated term.
type Row struct {
	Cluster string
	Code    Code
	Term    string
}

// Stats summarizes one cluster's expansion: the size of the base set
// (seeds plus their direct redirects), how many codes expansion added, and
// the final closure size.
type Stats struct {
	Base  int
	Added int
	Final int
}

// Result is the outcome of processing a single cluster. Skipped is set when
// the cluster had no usable seed code; such clusters are still reported,
// with zero codes.
type Result struct {
	Cluster string
	Rows    []Row
	Stats   Stats
	Skipped bool
}

// Totals accumulates run-wide counts across clusters. It is an explicit
// value threaded through the report rather than shared mutable state, so
// out-of-order cluster completion cannot corrupt it.
type Totals struct {
	Clusters int
	Skipped  int
	Codes    int
}

// Report carries every cluster's Result in configuration order plus the
// accumulated Totals.
type Report struct {
	Results []Result
	Totals  Totals
}

// AllRows concatenates the rows of every result, preserving cluster order.
// Codes are unique within a cluster but may legitimately repeat across
// clusters; no cross-cluster deduplication happens here.
func (r *Report) AllRows() []Row {
	var rows []Row
	for _, res := range r.Results {
		rows = append(rows, res.Rows...)
	}
	return rows
}

// UnknownTerm is emitted for codes with no entry in the terms table.
const UnknownTerm = "Unknown"

// Processor runs the closure expansion once per cluster against a shared
// immutable Store. It holds no per-cluster state, so clusters may be
// processed in any order or in parallel.
type Processor struct {
	store *Store
}

// NewProcessor returns a Processor reading from store.
func NewProcessor(store *Store) *Processor {
	return &Processor{store: store}
}

// Process expands one cluster and returns its output rows, sorted by code
// for deterministic output, together with its statistics. A cluster whose
// seeds are all empty is reported as skipped with zero codes; it never
// fails the run.
func (p *Processor) Process(spec ClusterSpec) Result {
	seeds := normalizeSeeds(spec.Seeds)
	if len(seeds) == 0 {
		slog.Warn("cluster has no usable seed codes, skipping", "cluster", spec.ID)
		return Result{Cluster: spec.ID, Skipped: true}
	}

	exclude := make(Set, len(spec.Exclude))
	for _, c := range spec.Exclude {
		if trimmed := Code(strings.TrimSpace(string(c))); trimmed != "" {
			exclude.Add(trimmed)
		}
	}

	// Base set size is measured before expansion so Added reflects what
	// the hierarchy walk contributed.
	base := make(Set)
	for _, seed := range seeds {
		if !exclude.Has(seed) {
			base.Add(seed)
		}
		for _, r := range p.store.RedirectsOf(seed) {
			if !exclude.Has(r) {
				base.Add(r)
			}
		}
	}

	full := Expand(seeds, p.store, exclude)

	rows := make([]Row, 0, len(full))
	for _, code := range full.Sorted() {
		term, ok := p.store.TermOf(code)
		if !ok {
			term = UnknownTerm
		}
		rows = append(rows, Row{Cluster: spec.ID, Code: code, Term: term})
	}

	stats := Stats{
		Base:  len(base),
		Added: len(full) - len(base),
		Final: len(full),
	}
	slog.Info("cluster created",
		"cluster", spec.ID, "seeds", stats.Base, "added", stats.Added, "codes", stats.Final)

	return Result{Cluster: spec.ID, Rows: rows, Stats: stats}
}

// ProcessAll expands every cluster and assembles the run report. With
// workers > 1 clusters fan out over a bounded errgroup; the store is
// immutable so no further synchronization is needed, and results are
// slotted back by configuration index so the report is identical however
// the clusters interleave.
func (p *Processor) ProcessAll(ctx context.Context, clusters []ClusterSpec, workers int) (*Report, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(clusters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, spec := range clusters {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.Process(spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results}
	for _, res := range results {
		report.Totals.Clusters++
		if res.Skipped {
			report.Totals.Skipped++
		}
		report.Totals.Codes += res.Stats.Final
	}
	return report, nil
}

func normalizeSeeds(seeds []Code) []Code {
	out := make([]Code, 0, len(seeds))
	seen := make(Set, len(seeds))
	for _, s := range seeds {
		c := Code(strings.TrimSpace(string(s)))
		if c == "" || seen.Has(c) {
			continue
		}
		seen.Add(c)
		out = append(out, c)
	}
	return out
}
