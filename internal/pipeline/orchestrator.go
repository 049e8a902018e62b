package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/entryview/internal/config"
	"github.com/dgallion1/entryview/internal/entry"
	"github.com/dgallion1/entryview/internal/render"
	"github.com/dgallion1/entryview/internal/toc"
	"golang.org/x/sync/singleflight"
)

// EntrySource is the content API the orchestrator reads from.
type EntrySource interface {
	GetEntries(ctx context.Context, q entry.EntriesQuery) (*entry.EntryConnection, error)
	GetEntry(ctx context.Context, entryID string) (*entry.Entry, error)
}

// Orchestrator turns upstream entries into rendered pages and caches them.
type Orchestrator struct {
	source   EntrySource
	renderer *render.Renderer
	pages    *PageStore
	group    singleflight.Group
	log      *slog.Logger
	tocTitle string

	cleanupInterval time.Duration
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to run cache cleanup.
func NewOrchestrator(cfg config.Config, source EntrySource, renderer *render.Renderer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		source:          source,
		renderer:        renderer,
		pages:           NewPageStore(cfg.CacheTTL),
		log:             log,
		tocTitle:        cfg.TocTitle,
		cleanupInterval: 5 * time.Minute,
	}
}

// Start launches the page store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				o.pages.Cleanup()
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it to exit.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Entries lists entries straight from the source.
func (o *Orchestrator) Entries(ctx context.Context, q entry.EntriesQuery) (*entry.EntryConnection, error) {
	return o.source.GetEntries(ctx, q)
}

// Page returns the rendered page for an entry, from cache when fresh.
// Concurrent misses for the same entry share one upstream fetch. The shared
// fetch is detached from any single caller's cancellation; a caller whose
// ctx ends stops waiting without failing the others.
func (o *Orchestrator) Page(ctx context.Context, entryID string) (*Page, error) {
	if page := o.pages.Get(entryID); page != nil {
		return page, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan(entryID, func() (any, error) {
		e, err := o.source.GetEntry(fetchCtx, entryID)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		page, err := BuildPage(e, o.renderer, o.tocTitle)
		if err != nil {
			return nil, err
		}
		o.pages.Put(entryID, page)
		o.log.Info("page rendered",
			"entry_id", entryID,
			"headings", toc.Count(page.Headings),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return page, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Page), nil
	}
}

// Invalidate drops a cached page so the next request re-renders it.
func (o *Orchestrator) Invalidate(entryID string) {
	o.pages.Delete(entryID)
}

// CachedPages returns the number of pages in the cache.
func (o *Orchestrator) CachedPages() int {
	return o.pages.Len()
}

// BuildPage runs the TOC pipeline over the entry content and renders it.
func BuildPage(e *entry.Entry, renderer *render.Renderer, tocTitle string) (*Page, error) {
	res := toc.Process(e.Content, tocTitle)
	html, err := renderer.Render(res.Markdown)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.EntryID, err)
	}

	meta := *e
	meta.Content = ""
	headings := res.Headings
	if headings == nil {
		headings = []toc.Heading{}
	}
	return &Page{
		Entry:          meta,
		Markdown:       res.Markdown,
		HTML:           html,
		Headings:       headings,
		ReadingMinutes: render.ReadingTime(render.PlainText(html)),
		ETag:           `"` + ContentHashHex([]byte(html)) + `"`,
		RenderedAt:     time.Now(),
	}, nil
}
