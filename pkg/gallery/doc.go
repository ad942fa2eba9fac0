// Package gallery loads masonry items from manifest files and resolves
// their intrinsic image heights.
//
// A manifest lists the items of one gallery in TOML or JSON:
//
//	title = "Portfolio"
//
//	[[item]]
//	id = "1"
//	img = "images/sunset.jpg"
//	height = 800
//	url = "https://example.com/sunset"
//
// Items without a height are resolved by a [Prober], which decodes only the
// image header of local files or remote URLs. Layout requires every height to
// be known, so [Manifest.Items] fails while any item is unresolved.
package gallery
