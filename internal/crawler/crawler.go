package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/docdown/docdown/internal/model"
	"github.com/docdown/docdown/internal/storage"
)

// PageRecorder receives every page outcome, typically backed by the
// crawl-history database. A nil recorder disables recording.
type PageRecorder interface {
	RecordPage(ctx context.Context, page *model.Page) error
}

// Crawler drives the fetch, extract, convert, persist cycle until the
// frontier reaches a terminal state.
type Crawler struct {
	frontier  *Frontier
	processor *Processor
	writer    *storage.Writer
	limiter   *rate.Limiter
	logger    *slog.Logger

	// workers is the number of concurrent fetch goroutines. One keeps
	// the crawl single-threaded and deterministic.
	workers int

	// followLinks enables recursive discovery. Sitemap runs seed the
	// whole frontier up front and leave this off.
	followLinks bool

	recorder PageRecorder
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithWorkers sets the number of concurrent fetch workers.
func WithWorkers(n int) CrawlerOption {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithFollowLinks enables enqueueing links discovered on each page.
func WithFollowLinks(follow bool) CrawlerOption {
	return func(c *Crawler) {
		c.followLinks = follow
	}
}

// WithRecorder attaches a page recorder.
func WithRecorder(r PageRecorder) CrawlerOption {
	return func(c *Crawler) {
		c.recorder = r
	}
}

// New creates a Crawler. The delay becomes a token-bucket limiter shared
// by all workers, so the politeness contract holds regardless of worker
// count.
func New(frontier *Frontier, processor *Processor, writer *storage.Writer, delay time.Duration, logger *slog.Logger, opts ...CrawlerOption) *Crawler {
	limit := rate.Limit(rate.Inf)
	if delay > 0 {
		limit = rate.Every(delay)
	}

	c := &Crawler{
		frontier:  frontier,
		processor: processor,
		writer:    writer,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
		workers:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run crawls from the given seeds until the frontier is exhausted, the
// budget is reached, or ctx is cancelled. Page-level failures are logged
// and recorded in the summary; they never abort the run.
func (c *Crawler) Run(ctx context.Context, seeds []string, summary *model.Summary) error {
	if n := c.frontier.Seed(seeds); n == 0 {
		c.logger.Warn("no seeds accepted", "offered", len(seeds))
	}

	// Cancellation stops dequeuing promptly; in-flight fetches finish
	// or time out on their own.
	stopWatch := context.AfterFunc(ctx, c.frontier.Cancel)
	defer stopWatch()

	var mu sync.Mutex // guards summary
	g, ctx := errgroup.WithContext(ctx)
	for range c.workers {
		g.Go(func() error {
			c.work(ctx, summary, &mu)
			return nil
		})
	}
	err := g.Wait()

	summary.FinishedAt = time.Now()
	summary.Interrupted = c.frontier.Cancelled()

	stats := c.frontier.Stats()
	c.logger.Info("crawl finished",
		"state", c.frontier.State().String(),
		"visited", stats.Visited,
		"pending", stats.Pending,
		"duplicates", stats.Duplicates,
		"saved", summary.Saved(),
		"failed", summary.Failures(),
	)
	return err
}

// work is one worker loop: acquire, throttle, process, persist, publish.
func (c *Crawler) work(ctx context.Context, summary *model.Summary, mu *sync.Mutex) {
	for {
		u, ok := c.frontier.Acquire()
		if !ok {
			return
		}

		// Politeness throttle, shared across workers and applied
		// regardless of the previous request's outcome.
		if err := c.limiter.Wait(ctx); err != nil {
			c.frontier.Complete(nil)
			return
		}

		page := c.processor.Process(ctx, u)
		c.persist(page)
		c.record(ctx, page)

		mu.Lock()
		summary.AddPage(page)
		mu.Unlock()

		if c.followLinks && !page.Failed {
			c.frontier.Complete(page.Links)
		} else {
			c.frontier.Complete(nil)
		}
	}
}

// persist writes a successful page to disk. A write failure downgrades
// the page to failed; it never aborts the run.
func (c *Crawler) persist(page *model.Page) {
	if page.Failed {
		c.logger.Warn("page failed", "url", page.URL, "status", page.StatusCode, "error", page.Err)
		return
	}

	relPath, err := c.writer.Save(page.Title, page.Markdown, page.URL)
	if err != nil {
		c.logger.Error("failed to save page", "url", page.URL, "error", err)
		page.Failed = true
		page.Err = err.Error()
		return
	}

	page.OutputPath = relPath
	c.logger.Info("saved page", "url", page.URL, "path", relPath)
}

// record stores the page outcome in the history database, best effort.
func (c *Crawler) record(ctx context.Context, page *model.Page) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordPage(ctx, page); err != nil {
		c.logger.Warn("failed to record page", "url", page.URL, "error", err)
	}
}
