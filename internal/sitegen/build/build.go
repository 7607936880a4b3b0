// Package build runs the reconciliation pipeline: scan the tree, fold the
// pages by canonical key, then bring head tags, structured data, cross-link
// blocks, sitemaps and the search dataset in line with that state.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gamerank/sitegen/internal/sitegen/aggregate"
	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/logger"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/reconcile"
	"github.com/gamerank/sitegen/internal/sitegen/render"
	"github.com/gamerank/sitegen/internal/sitegen/scan"
)

// Stage is one independently runnable part of the pipeline.
type Stage string

const (
	StageMeta       Stage = "meta"
	StageSitemap    Stage = "sitemap"
	StageSchema     Stage = "schema"
	StageCrossLinks Stage = "crosslinks"
	StageSearch     Stage = "search"
)

// AllStages is the order stages run in when everything is requested.
var AllStages = []Stage{StageMeta, StageSitemap, StageSchema, StageCrossLinks, StageSearch}

const indentUnit = "  "

// Options are the run-time switches that do not live in the config file.
type Options struct {
	// Force lets freshly scraped labels overwrite persisted ones.
	Force bool
	// DryRun computes everything but writes nothing.
	DryRun bool
	// Limits override menu section caps by section name.
	Limits map[string]int
}

// Builder orchestrates one run over a content tree.
type Builder struct {
	cfg    *config.Config
	opts   Options
	log    logger.Interface
	model  *pathkey.Model
	writer *reconcile.Writer
}

// NewBuilder creates a new builder.
func NewBuilder(cfg *config.Config, opts Options, log logger.Interface) (*Builder, error) {
	eng, err := render.NewEngine(indentUnit)
	if err != nil {
		return nil, fmt.Errorf("initializing render engine: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Builder{
		cfg:    cfg,
		opts:   opts,
		log:    log,
		model:  pathkey.New(cfg.Site.DefaultLocale, cfg.Site.Locales),
		writer: reconcile.NewWriter(eng, indentUnit, opts.DryRun),
	}, nil
}

// corpus is the scanned and folded content tree shared by every stage.
type corpus struct {
	pages  []*scan.Page
	states map[string]*aggregate.State
}

// Build scans the tree once and runs the requested stages in order. Per-file
// failures are collected in the report; only a tree that cannot be scanned
// is an error.
func (b *Builder) Build(ctx context.Context, stages ...Stage) (*Report, error) {
	if len(stages) == 0 {
		stages = AllStages
	}
	report := newReport(uuid.NewString())
	log := b.log.With("run_id", report.RunID)
	start := time.Now()
	log.Info("Building site", "name", b.cfg.Site.Name, "root", b.cfg.Paths.Root, "dry_run", b.opts.DryRun)

	c, err := b.load(ctx, log)
	if err != nil {
		return nil, err
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		stageLog := log.WithComponent(string(stage))
		switch stage {
		case StageMeta:
			b.runMeta(ctx, c, report, stageLog)
		case StageSitemap:
			b.runSitemap(c, report, stageLog)
		case StageSchema:
			if err := b.runSchema(ctx, c, report, stageLog); err != nil {
				return report, err
			}
		case StageCrossLinks:
			b.runCrossLinks(ctx, c, report, stageLog)
		case StageSearch:
			b.runSearch(c, report, stageLog)
		default:
			return report, fmt.Errorf("unknown stage %q", stage)
		}
	}

	log.Info("Build complete", "duration", time.Since(start), "failures", len(report.Failures()))
	return report, nil
}

func (b *Builder) load(ctx context.Context, log logger.Interface) (*corpus, error) {
	scanner := &scan.FSScanner{
		Root:     b.cfg.Paths.Root,
		SkipDirs: b.cfg.Paths.SkipDirs,
		Model:    b.model,
		Brand:    b.cfg.Site.Brand,
		Workers:  b.cfg.Workers,
		Log:      log.WithComponent("scan"),
	}
	pages, err := scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", b.cfg.Paths.Root, err)
	}

	agg := &aggregate.Aggregator{
		Model:  b.model,
		Origin: b.cfg.Site.BaseURL,
		Brand:  b.cfg.Site.Brand,
		Policy: aggregate.PolicyFor(b.opts.Force),
	}
	states := agg.Aggregate(pages)

	alive := 0
	for _, key := range aggregate.SortedKeys(states) {
		st := states[key]
		if st.Alive() {
			alive++
			continue
		}
		if st.AnyNoindex && st.AnyIndexed {
			log.Debug("excluded: noindex in some locale", "key", key, "locales", st.Locales)
		} else {
			log.Debug("excluded: noindex everywhere", "key", key)
		}
	}
	log.Info("Loaded pages", "pages", len(pages), "keys", len(states), "alive", alive)
	return &corpus{pages: pages, states: states}, nil
}

// eachPage runs fn for every page with bounded concurrency. Every page is
// handled by exactly one goroutine, so a file is never read and written by
// two workers at once.
func (b *Builder) eachPage(ctx context.Context, pages []*scan.Page, fn func(p *scan.Page)) {
	workers := b.cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(p)
			return nil
		})
	}
	_ = g.Wait()
}

// record logs one file outcome and adds it to the report.
func (b *Builder) record(report *Report, stage Stage, log logger.Interface, path string, outcome reconcile.Outcome, err error) {
	report.Record(stage, path, outcome, err)
	rel := b.rel(path)
	switch outcome {
	case reconcile.Updated, reconcile.Removed:
		if b.opts.DryRun {
			log.Info("would "+verb(outcome), "file", rel)
			return
		}
		log.Info(outcome.String(), "file", rel)
	case reconcile.Skipped:
		log.Info("skipped", "file", rel)
	case reconcile.Failed:
		log.Error("failed", "file", rel, "error", err)
	default:
		log.Debug(outcome.String(), "file", rel)
	}
}

func verb(o reconcile.Outcome) string {
	if o == reconcile.Removed {
		return "remove"
	}
	return "update"
}

func (b *Builder) rel(path string) string {
	if r, err := filepath.Rel(b.cfg.Paths.Root, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}

// labels resolves display labels from the folded states.
func labels(states map[string]*aggregate.State, order []string) func(key, locale string) string {
	return func(key, locale string) string {
		if st := states[key]; st != nil {
			return st.Label(locale, order)
		}
		return pathkey.LastSegmentLabel(key)
	}
}
