// Package pipeline orchestrates the document build: discover, load, parse,
// render, route, write. Documents are processed independently; one document's
// failure never aborts the others.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagepress/internal/config"
	"git.home.luguber.info/inful/pagepress/internal/document"
	"git.home.luguber.info/inful/pagepress/internal/linkverify"
	"git.home.luguber.info/inful/pagepress/internal/logfields"
	"git.home.luguber.info/inful/pagepress/internal/markdown"
	"git.home.luguber.info/inful/pagepress/internal/metrics"
	"git.home.luguber.info/inful/pagepress/internal/render"
	"git.home.luguber.info/inful/pagepress/internal/router"
	"git.home.luguber.info/inful/pagepress/internal/site"
	"git.home.luguber.info/inful/pagepress/internal/source"
	"git.home.luguber.info/inful/pagepress/internal/state"
)

// Builder runs builds for one configuration.
type Builder struct {
	cfg      *config.Config
	store    *state.Store
	recorder metrics.Recorder
}

// NewBuilder creates a builder with a no-op metrics recorder.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}}
}

// WithRecorder injects a metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithStateStore injects the incremental build-state store.
func (b *Builder) WithStateStore(s *state.Store) *Builder {
	b.store = s
	return b
}

// Options tunes a single build run.
type Options struct {
	// Full ignores recorded build state and rebuilds every document.
	Full bool
}

// Issue is a per-document failure captured without aborting the build.
type Issue struct {
	Source string
	Err    error
}

// Report summarizes one build run.
type Report struct {
	BuildID    string
	Built      int
	Skipped    int
	Failed     int
	Issues     []Issue
	LinkIssues []linkverify.Issue
	Duration   time.Duration
}

// Succeeded reports whether every document built (or skipped) cleanly.
func (r *Report) Succeeded() bool { return r.Failed == 0 }

type docOutcome struct {
	source  string
	skipped bool
	err     error
}

// Build runs the full pipeline once.
//
// The returned error covers build-level failures (discovery, state access);
// per-document failures land in the report.
func (b *Builder) Build(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	buildID := uuid.NewString()

	slog.Info("Starting build",
		logfields.BuildID(buildID),
		slog.String("content", b.cfg.Content.Dir),
		slog.String("output", b.cfg.Output.Directory),
		slog.Bool("full", opts.Full))

	files, err := source.Discover(b.cfg.Content.Dir)
	if err != nil {
		b.recorder.IncBuildOutcome("failed")
		return nil, err
	}

	if opts.Full && b.store != nil {
		if err := b.store.Reset(ctx); err != nil {
			return nil, err
		}
	}

	writer := site.NewWriter(b.cfg.Output.Directory, b.cfg.Site.Title, b.cfg.Site.BaseURL)

	concurrency := b.cfg.Build.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	b.recorder.SetRenderConcurrency(concurrency)

	jobs := make(chan source.File)
	outcomes := make(chan docOutcome, len(files))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				select {
				case <-ctx.Done():
					outcomes <- docOutcome{source: f.RelativePath, err: ctx.Err()}
					continue
				default:
				}
				skipped, err := b.processDocument(ctx, f, writer)
				outcomes <- docOutcome{source: f.RelativePath, skipped: skipped, err: err}
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	report := &Report{BuildID: buildID}
	for outcome := range outcomes {
		switch {
		case outcome.err != nil:
			report.Failed++
			report.Issues = append(report.Issues, Issue{Source: outcome.source, Err: outcome.err})
			b.recorder.IncDocResult(metrics.DocFailed)
			slog.Warn("Document build failed",
				logfields.BuildID(buildID),
				logfields.Document(outcome.source),
				logfields.Error(outcome.err))
		case outcome.skipped:
			report.Skipped++
			b.recorder.IncDocResult(metrics.DocSkipped)
		default:
			report.Built++
			b.recorder.IncDocResult(metrics.DocBuilt)
		}
	}
	sort.Slice(report.Issues, func(i, j int) bool { return report.Issues[i].Source < report.Issues[j].Source })

	if b.cfg.Build.VerifyLinks {
		issues, err := linkverify.VerifyTree(b.cfg.Output.Directory)
		if err != nil {
			slog.Warn("Link verification failed", logfields.BuildID(buildID), logfields.Error(err))
		} else {
			report.LinkIssues = issues
			for _, issue := range issues {
				slog.Warn("Broken internal link",
					logfields.Document(issue.Page),
					slog.String("target", issue.Target))
			}
		}
	}

	report.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(report.Duration)
	switch {
	case report.Failed == 0:
		b.recorder.IncBuildOutcome("success")
	case report.Built > 0 || report.Skipped > 0:
		b.recorder.IncBuildOutcome("partial")
	default:
		b.recorder.IncBuildOutcome("failed")
	}

	slog.Info("Build finished",
		logfields.BuildID(buildID),
		slog.Int("built", report.Built),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	return report, nil
}

// processDocument runs one document through load-parse-render-route-write.
// It reports skipped=true when recorded state shows the output is current.
func (b *Builder) processDocument(ctx context.Context, f source.File, writer *site.Writer) (skipped bool, err error) {
	doc, err := document.Load(f.Path)
	if err != nil {
		return false, err
	}
	doc = doc.WithSource(f.RelativePath)

	hash := state.Hash(doc.Original())
	if b.store != nil {
		entry, found, err := b.store.Lookup(ctx, f.RelativePath)
		if err != nil {
			return false, err
		}
		if found && entry.ContentHash == hash && outputExists(writer.Root(), entry.OutputPath) {
			return true, nil
		}
	}

	nodes, err := markdown.Parse(doc.Body())
	if err != nil {
		return false, err
	}

	fragment, err := render.HTML(nodes)
	if err != nil {
		return false, err
	}

	route, err := router.Compute(doc, router.Policy{DefaultFromSource: b.cfg.Content.DefaultPermalinks})
	if err != nil {
		return false, err
	}

	title, _ := doc.Meta("title")
	if _, err := writer.WritePage(site.Page{File: route.File, Title: title, Body: fragment}); err != nil {
		return false, err
	}

	if b.store != nil {
		if err := b.store.Record(ctx, state.Entry{
			Source:      f.RelativePath,
			ContentHash: hash,
			OutputPath:  route.File,
		}); err != nil {
			return false, err
		}
	}

	slog.Debug("Document built",
		logfields.Document(f.RelativePath),
		logfields.OutputPath(route.File))
	return false, nil
}

func outputExists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
