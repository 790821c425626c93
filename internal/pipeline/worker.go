package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/texgen/internal/latex"
	"github.com/dgallion1/texgen/internal/parser"
	"github.com/dgallion1/texgen/internal/store"
)

// WorkerOptions carries the settings a worker applies to every job.
type WorkerOptions struct {
	PDFFallbackPdftotext bool
	DocumentClass        string
	ResultTTL            time.Duration
}

// Worker processes a single document job.
type Worker struct {
	store store.Store
	stats *RenderStats
	log   *slog.Logger
	opts  WorkerOptions
}

func NewWorker(st store.Store, stats *RenderStats, log *slog.Logger, opts WorkerOptions) *Worker {
	return &Worker{
		store: st,
		stats: stats,
		log:   log,
		opts:  opts,
	}
}

// Process runs parse, render and store for a job. The rendered document
// is stored only when the whole render succeeded.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.releaseFileData()

	// Phase 0: an identical earlier render short-circuits the job.
	if cached, ok, err := w.store.Get(ctx, job.ContentKey); err != nil {
		log.Warn("result lookup failed, rendering", "error", err)
	} else if ok {
		log.Info("render cached", "content_key", job.ContentKey)
		job.SetResult(Result{Bytes: len(cached)})
		job.SetStatus(StatusCached, "done")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFileWithOptions(job.Filename, parser.Options{
		PDFFallbackPdftotext: w.opts.PDFFallbackPdftotext,
	})
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	ov := job.Overrides
	if ov.Title != "" {
		tree.Title = latex.Escape(ov.Title)
	}
	if ov.Author != "" {
		tree.Author = latex.Escape(ov.Author)
	}
	switch {
	case ov.Class != "":
		tree.Class = ov.Class
	case tree.Class == "":
		tree.Class = w.opts.DocumentClass
	}

	// Phase 2: Render into memory.
	job.SetStatus(StatusRendering, "rendering")
	var out strings.Builder
	start := time.Now()
	err = tree.Render(&out)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	w.stats.Record(elapsed, out.Len())

	nodes := 0
	for _, n := range tree.Stats() {
		nodes += n
	}
	job.SetResult(Result{
		Title:    tree.Title,
		Bytes:    out.Len(),
		Nodes:    nodes,
		Packages: tree.RequiredPackages(),
	})
	log.Info("rendered document", "bytes", out.Len(), "nodes", nodes, "elapsed", elapsed)

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	if err := w.store.Put(ctx, job.ContentKey, []byte(out.String()), w.opts.ResultTTL); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
