// Package render contains the output sinks for realized venue layouts.
//
// Two sink families live here:
//
//   - [floor] renders the floor plan itself: the draw-command list from
//     the layout engine serialized as SVG (optionally with embedded
//     hover/click behavior) or as JSON for external tooling.
//   - [ownership] renders the section ownership graph (balconies and
//     the tables or sofas they own) through Graphviz, for inspecting a
//     document's structure rather than its geometry.
//
// Sinks are pure functions over their inputs; caching and file I/O are
// the pipeline's concern.
//
// [floor]: github.com/hallplan/hallplan/pkg/render/floor
// [ownership]: github.com/hallplan/hallplan/pkg/render/ownership
package render
