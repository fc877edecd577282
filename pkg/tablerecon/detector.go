package tablerecon

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ============================================================================
// Main Detector API Implementation
// ============================================================================

// Detector reconstructs tables page by page, choosing a segmentation
// strategy for each page
type Detector struct {
	config    Config
	logger    *slog.Logger
	title     *TitleBoundedSegmenter
	structure Segmenter
	signature Segmenter
}

// DetectorOption defines options for configuring the detector
type DetectorOption func(*Detector)

// WithConfig replaces the whole configuration
func WithConfig(config Config) DetectorOption {
	return func(d *Detector) {
		d.config = config
	}
}

// WithStrategy forces a strategy ("auto", "title", "structure" or "signature")
func WithStrategy(strategy string) DetectorOption {
	return func(d *Detector) {
		d.config.Strategy = strategy
	}
}

// WithFallback sets the strategy used by "auto" on pages without titles
func WithFallback(strategy string) DetectorOption {
	return func(d *Detector) {
		d.config.Fallback = strategy
	}
}

// WithTitleSlicing sets how title-bounded regions are cut ("stream" or "vertical")
func WithTitleSlicing(mode string) DetectorOption {
	return func(d *Detector) {
		d.config.TitleSlicing = mode
	}
}

// WithRowBucket sets the vertical bucket width used for row clustering
func WithRowBucket(bucket float64) DetectorOption {
	return func(d *Detector) {
		d.config.RowBucket = bucket
	}
}

// WithWorkers sets how many pages are reconstructed concurrently
func WithWorkers(workers int) DetectorOption {
	return func(d *Detector) {
		d.config.Workers = workers
	}
}

// WithLogger sets the logger used for discarded regions and strategy decisions
func WithLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a new detector with the specified options
func NewDetector(opts ...DetectorOption) *Detector {
	detector := &Detector{
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(detector)
	}
	if detector.logger == nil {
		detector.logger = slog.Default()
	}

	detector.initializeSegmenters()
	return detector
}

// initializeSegmenters sets up the segmentation strategies
func (d *Detector) initializeSegmenters() {
	d.title = NewTitleBoundedSegmenter(d.config, d.logger)
	d.structure = NewStructureBoundedSegmenter(d.config, d.logger)
	d.signature = NewColumnSignatureSegmenter(d.config, d.logger)
}

// Config returns the detector configuration
func (d *Detector) Config() Config {
	return d.config
}

// fallback returns the segmenter used when a page has no titles.
func (d *Detector) fallback() Segmenter {
	if d.config.Fallback == StrategySignature {
		return d.signature
	}
	return d.structure
}

// DetectPage reconstructs the tables of one page and attaches the page's footnotes.
func (d *Detector) DetectPage(page Page) []Table {
	var tables []Table

	switch d.config.Strategy {
	case StrategyStructure:
		tables = d.structure.Segment(page)
	case StrategySignature:
		tables = d.signature.Segment(page)
	case StrategyTitle:
		tables = d.segmentByTitles(page, FindTitles(page))
	default:
		titles := FindTitles(page)
		if len(titles) > 0 {
			tables = d.segmentByTitles(page, titles)
		} else {
			d.logger.Debug("no table titles found, using structure", "page", page.Number, "strategy", d.fallback().Name())
			tables = d.fallback().Segment(page)
		}
	}

	AttachFootnotes(tables, ExtractFootnotes(page))
	return tables
}

func (d *Detector) segmentByTitles(page Page, titles []Title) []Table {
	d.logger.Debug("segmenting by titles", "page", page.Number, "titles", len(titles))
	if len(titles) > 0 && d.config.TitleSlicing == SliceByStream && !InReadingOrder(page, d.config.RowBucket) {
		d.logger.Warn("token stream is not in reading order, titled regions may pick up tokens above their title",
			"page", page.Number)
	}
	return d.title.SegmentTitles(page, titles)
}

// DetectDocument reconstructs every page of doc. Pages are processed
// concurrently and the tables are returned in page order.
func (d *Detector) DetectDocument(ctx context.Context, doc Document) ([]Table, error) {
	if err := ValidateConfig(d.config); err != nil {
		return nil, err
	}

	results := make([][]Table, len(doc.Pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.workers())

	for i, page := range doc.Pages {
		if page.Number == 0 {
			page.Number = i + 1
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.DetectPage(page)
			d.logger.Debug("processed page", "page", page.Number, "tables", len(results[i]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reconstructing tables: %w", err)
	}

	var all []Table
	for _, tables := range results {
		all = append(all, tables...)
	}
	return all, nil
}

// DetectTables is a convenience wrapper that reconstructs a document with a
// detector built from opts.
func DetectTables(ctx context.Context, doc Document, opts ...DetectorOption) ([]Table, error) {
	return NewDetector(opts...).DetectDocument(ctx, doc)
}
