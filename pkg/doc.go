// Package pkg provides the core libraries for masonry gallery layouts.
//
// # Overview
//
// Masonry places gallery items in balanced columns: every item goes into the
// column that is currently shortest. The pkg directory is organized into:
//
//  1. [masonry] - The layout engine, column policy and entry animation plans
//  2. [gallery] - Gallery manifests and image size probing
//  3. [pipeline] - Orchestration (load → layout) with caching
//  4. [cache] - File, Redis and no-op caches for layouts and probes
//  5. [errors] - Coded errors and input validation
//  6. [observability] - Hooks for metrics and tracing
//
// # Architecture
//
//	Gallery manifest (TOML/JSON)
//	         ↓
//	    [gallery] package (parse, probe missing heights)
//	         ↓
//	    [masonry] package (columns from viewport, shortest-column placement)
//	         ↓
//	    layout.json / API response / terminal preview
//
// # Quick Start
//
//	items := []masonry.Item{
//	    {ID: "a", Img: "a.jpg", Height: 400},
//	    {ID: "b", Img: "b.jpg", Height: 300},
//	}
//	cols := masonry.DefaultPolicy().Columns(1280)
//	layout, ok := masonry.Compute(1200, cols, items)
//	if !ok {
//	    // container not measured yet
//	}
//
// [masonry]: github.com/matzehuels/masonry/pkg/masonry
// [gallery]: github.com/matzehuels/masonry/pkg/gallery
// [pipeline]: github.com/matzehuels/masonry/pkg/pipeline
// [cache]: github.com/matzehuels/masonry/pkg/cache
// [errors]: github.com/matzehuels/masonry/pkg/errors
// [observability]: github.com/matzehuels/masonry/pkg/observability
package pkg
