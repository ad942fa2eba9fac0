// Package pipeline runs the gallery pipeline shared by the CLI and the API
// server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Parse a gallery manifest and probe missing image heights
//  2. Layout: Compute masonry positions for the items
//
// The layout stage is a pure computation; the runner only adds caching,
// logging and observability around it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest:       "gallery.toml",
//	    ViewportWidth:  1280,
//	    ContainerWidth: 1200,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.Layout == nil {
//	    // width not measurable yet
//	}
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/gallery"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultViewportWidth is the reference width used when none is given.
	DefaultViewportWidth = 1280.0

	// DefaultContainerWidth is the container width used when none is given.
	DefaultContainerWidth = 1200.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the gallery pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Manifest  string `json:"manifest,omitempty"`
	SkipProbe bool   `json:"skip_probe,omitempty"`

	// Layout options
	ViewportWidth  float64        `json:"viewport_width,omitempty"`
	ContainerWidth float64        `json:"container_width,omitempty"`
	Columns        int            `json:"columns,omitempty"` // overrides the policy when > 0
	Policy         masonry.Policy `json:"policy,omitempty"`
	Refresh        bool           `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger     `json:"-"`
	Prober *gallery.Prober `json:"-"`
}

// SetLayoutDefaults fills in unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.ViewportWidth == 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ContainerWidth == 0 {
		o.ContainerWidth = o.ViewportWidth
	}
	if len(o.Policy) == 0 {
		o.Policy = masonry.DefaultPolicy()
	}
}

// ValidateForLoad checks the load stage options.
func (o *Options) ValidateForLoad() error {
	if o.Manifest == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest path is required")
	}
	return nil
}

// ValidateForLayout checks the layout stage options. A non-positive container
// width is not an error: the layout stage declines to run instead.
func (o *Options) ValidateForLayout() error {
	if o.Columns < 0 || o.Columns > masonry.MaxColumns {
		return errors.New(errors.ErrCodeInvalidInput, "columns must be between 0 and %d, got %d", masonry.MaxColumns, o.Columns)
	}
	if o.ViewportWidth < 0 {
		return errors.New(errors.ErrCodeInvalidMeasurement, "viewport width must not be negative, got %v", o.ViewportWidth)
	}
	return nil
}

// ColumnCount returns the explicit column count or the policy's choice for
// the viewport width.
func (o *Options) ColumnCount() int {
	if o.Columns > 0 {
		return o.Columns
	}
	p := o.Policy
	if len(p) == 0 {
		p = masonry.DefaultPolicy()
	}
	return p.Sorted().Columns(o.ViewportWidth)
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Manifest is the loaded gallery.
	Manifest *gallery.Manifest

	// Items are the layout inputs derived from the manifest.
	Items []masonry.Item

	// ItemsHash is the content hash of Items.
	ItemsHash string

	// Layout is nil when the container width was not usable.
	Layout *masonry.Layout

	// Probe reports image dimension probing, nil when skipped.
	Probe *gallery.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	Columns    int
	LoadTime   time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit   bool
	ProbeCached int
}
