package build

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gamerank/sitegen/internal/sitegen/aggregate"
	"github.com/gamerank/sitegen/internal/sitegen/crosslink"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
	"github.com/gamerank/sitegen/internal/sitegen/logger"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/reconcile"
	"github.com/gamerank/sitegen/internal/sitegen/scan"
	"github.com/gamerank/sitegen/internal/sitegen/schema"
	"github.com/gamerank/sitegen/internal/sitegen/search"
	"github.com/gamerank/sitegen/internal/sitegen/sidecar"
	"github.com/gamerank/sitegen/internal/sitegen/sitemap"
)

// runMeta reconciles canonical, googlebot, og:url, og:locale and hreflang
// tags on every page, indexable or not.
func (b *Builder) runMeta(ctx context.Context, c *corpus, report *Report, log logger.Interface) {
	b.eachPage(ctx, c.pages, func(p *scan.Page) {
		st := c.states[p.Key]
		in := reconcile.HeadInput{
			Canonical:  aggregate.URL(b.cfg.Site.BaseURL, p.URLPath),
			Noindex:    p.Noindex,
			OGLocale:   b.cfg.OGLocale(p.Locale),
			Alternates: st.Alternates,
		}
		outcome, err := b.writer.Head(p.FilePath, in)
		b.record(report, StageMeta, log, p.FilePath, outcome, err)
	})
}

// runSitemap writes every bucket for the primary origin and the mirrors.
func (b *Builder) runSitemap(c *corpus, report *Report, log logger.Interface) {
	buckets := sitemap.BuildBuckets(c.states, b.cfg.Site.BaseURL, b.cfg.Site.DefaultLocale)
	a := &sitemap.Assembler{
		Root:    b.cfg.Paths.Root,
		Origin:  b.cfg.Site.BaseURL,
		Mirrors: b.cfg.Sitemap.Mirrors,
		Buckets: sitemap.BucketNames(b.model.Locales(), b.cfg.Site.DefaultLocale),
		Index:   b.cfg.Sitemap.Index,
		DryRun:  b.opts.DryRun,
	}
	for _, r := range a.Write(buckets) {
		b.record(report, StageSitemap, log, r.Path, fileOutcome(r.Written, r.Err), r.Err)
	}
	for name, entries := range buckets {
		log.Debug("bucket", "name", name, "entries", len(entries))
	}
}

// runSchema reconciles the JSON-LD graph of regular pages and guides and the
// Review block of review pages. Noindex pages are left alone.
func (b *Builder) runSchema(ctx context.Context, c *corpus, report *Report, log logger.Interface) error {
	composer, err := schema.NewComposer(b.cfg, b.model, labels(c.states, b.model.Locales()))
	if err != nil {
		return err
	}
	guides, err := sidecar.LoadGuides(b.cfg.Paths.Guides)
	if err != nil {
		log.Warn("guides table unreadable, composing guides without it", "error", err)
		guides = sidecar.Guides{}
	}

	b.eachPage(ctx, c.pages, func(p *scan.Page) {
		if p.Noindex {
			log.Debug("no structured data for noindex page", "file", b.rel(p.FilePath))
			return
		}
		var (
			outcome reconcile.Outcome
			err     error
		)
		if p.Kind == pathkey.KindReview {
			outcome, err = b.reviewSchema(composer, p, log)
		} else {
			outcome, err = b.writer.Graph(p.FilePath, b.cfg.Schema.MarkerClass, b.prepareGraph(composer, guides, p))
		}
		b.record(report, StageSchema, log, p.FilePath, outcome, err)
	})
	return nil
}

func (b *Builder) reviewSchema(composer *schema.Composer, p *scan.Page, log logger.Interface) (reconcile.Outcome, error) {
	slug := pathkey.Slug(p.Key)
	info, err := sidecar.ReadSiteInfo(b.cfg.Paths.SiteInfos, slug)
	if err != nil {
		log.Warn("site info unreadable, no Review block", "file", b.rel(p.FilePath), "error", err)
		return reconcile.Skipped, nil
	}
	if info == nil {
		log.Warn("no site info, no Review block", "file", b.rel(p.FilePath), "slug", slug)
		return reconcile.Skipped, nil
	}
	review, ok := composer.Review(info, p.URLPath)
	if !ok {
		log.Debug("no numeric ratings, no Review block", "file", b.rel(p.FilePath), "slug", slug)
		return reconcile.Skipped, nil
	}
	return b.writer.Review(p.FilePath, review)
}

// prepareGraph composes from the page's current source so the word count of
// a guide reflects what is on disk right now.
func (b *Builder) prepareGraph(composer *schema.Composer, guides sidecar.Guides, p *scan.Page) func(src string) reconcile.ComposeFunc {
	return func(src string) reconcile.ComposeFunc {
		in := schema.PageInput{
			Key:     p.Key,
			URLPath: p.URLPath,
			Locale:  p.Locale,
			Kind:    p.Kind,
			Fields:  p.Fields,
		}
		if p.Kind == pathkey.KindGuide {
			in.Guide = guides.Get(pathkey.Slug(p.Key))
			if doc, err := extract.Parse(src); err == nil {
				in.WordCount = extract.WordCount(doc, b.cfg.Schema.GuideContentSelector)
			}
		}
		return func(stamp string) map[string]interface{} {
			in.DateModified = stamp
			return composer.Compose(in)
		}
	}
}

// runCrossLinks reconciles the cross-link block of every category page.
func (b *Builder) runCrossLinks(ctx context.Context, c *corpus, report *Report, log logger.Interface) {
	builder := crosslink.NewBuilder(b.cfg.CrossLinks, b.model, b.cfg.Paths.Root)
	b.eachPage(ctx, c.pages, func(p *scan.Page) {
		block, ok := builder.For(p.URLPath)
		if !ok {
			return
		}
		outcome, err := b.writer.CrossLinks(p.FilePath, reconcile.CrossLinkInput{
			ContainerClass: b.cfg.CrossLinks.ContainerClass,
			Block:          block,
		})
		b.record(report, StageCrossLinks, log, p.FilePath, outcome, err)
	})
}

// runSearch rebuilds config.json, translations.json and menu-build.json.
func (b *Builder) runSearch(c *corpus, report *Report, log logger.Interface) {
	outDir := b.cfg.Paths.SearchOut
	infos, err := sidecar.ReadAllSiteInfos(b.cfg.Paths.SiteInfos, func(slug string, err error) {
		log.Warn("skipping site info", "slug", slug, "error", err)
	})
	if err != nil {
		log.Warn("site infos unreadable", "error", err)
	}

	persisted, err := search.LoadTranslations(filepath.Join(outDir, search.TranslationsFile), func(key string, err error) {
		log.Warn("dropping malformed translation", "key", key, "error", err)
	})
	if err != nil {
		log.Warn("persisted translations unreadable, starting fresh", "error", err)
		persisted = search.Translations{}
	}

	sb := &search.Builder{
		Model:     b.model,
		Brand:     b.cfg.Site.Brand,
		Policy:    aggregate.PolicyFor(b.opts.Force),
		SiteInfos: infos,
	}
	mb := &search.MenuBuilder{
		Root:     b.cfg.Paths.Root,
		Model:    b.model,
		Sections: b.cfg.Search.MenuSections,
		Limits:   b.opts.Limits,
	}
	menu, errs := mb.Build()
	for _, err := range errs {
		log.Warn("menu section left empty", "error", err)
	}

	cfg := sb.Config(c.states)
	files, err := search.Files(cfg, sb.Translations(c.states, persisted), menu)
	if err != nil {
		b.record(report, StageSearch, log, outDir, reconcile.Failed, err)
		return
	}
	for _, f := range files {
		path := filepath.Join(outDir, f.Name)
		written, err := fsutil.Store(path, f.Data, b.opts.DryRun)
		b.record(report, StageSearch, log, path, fileOutcome(written, err), err)
	}
	log.Info("search dataset", "sites", len(cfg.Sites))
}

func fileOutcome(written bool, err error) reconcile.Outcome {
	switch {
	case err != nil:
		return reconcile.Failed
	case written:
		return reconcile.Updated
	default:
		return reconcile.Unchanged
	}
}

// WriteSummary prints the report table to w.
func WriteSummary(w io.Writer, report *Report) error {
	_, err := fmt.Fprintln(w, report.Table())
	return err
}
