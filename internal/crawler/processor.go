package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/docdown/docdown/internal/convert"
	"github.com/docdown/docdown/internal/model"
)

// Processor turns one URL into a model.Page: fetch, extract, convert.
// It has no side effects beyond the network fetch; persistence belongs to
// the caller.
//
// Design decision: Failures never propagate past this boundary as errors.
// A timeout, a bad status, or a converter rejection all yield a Page the
// frontier can count and record; only the shape of that Page differs.
type Processor struct {
	client      *http.Client
	extractor   *Extractor
	converter   convert.Converter
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// NewProcessor creates a Processor. The timeout bounds each page fetch;
// there is no retry: a failed URL is marked visited-but-failed and never
// refetched within the run.
func NewProcessor(client *http.Client, extractor *Extractor, converter convert.Converter, userAgent string, timeout time.Duration, maxBodySize int64, logger *slog.Logger) *Processor {
	return &Processor{
		client:      client,
		extractor:   extractor,
		converter:   converter,
		userAgent:   userAgent,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// Process fetches and converts a single page.
func (p *Processor) Process(ctx context.Context, pageURL string) *model.Page {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.FailedPage(pageURL, 0, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return model.FailedPage(pageURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return model.FailedPage(pageURL, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// Decode legacy charsets up front; the extractor and converter
	// both expect UTF-8.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, p.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return model.FailedPage(pageURL, resp.StatusCode, fmt.Errorf("detect charset: %w", err))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return model.FailedPage(pageURL, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	extraction, err := p.extractor.Extract(string(body), pageURL)
	if err != nil {
		return model.FailedPage(pageURL, resp.StatusCode, fmt.Errorf("extract content: %w", err))
	}

	markdown, err := p.converter.Convert(extraction.ContentHTML)
	if err != nil {
		// Conversion failure does not drop the page: record a
		// placeholder body so the URL counts as visited and is never
		// retried.
		p.logger.Error("markdown conversion failed", "url", pageURL, "error", err)
		markdown = convert.Placeholder(pageURL, err)
	}

	return &model.Page{
		URL:        pageURL,
		Title:      extraction.Title,
		Markdown:   convert.CollapseBlankLines(markdown),
		Links:      extraction.Links,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}
}
