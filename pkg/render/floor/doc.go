// Package floor realizes layout draw commands onto output sinks.
//
// The layout engine emits a flat, z-ordered list of primitives; this
// package is the rendering surface side of that contract. Two sinks
// exist:
//
//   - SVG: a vector document whose root carries the bounding coordinate
//     system. Every seat circle carries data-section, data-category and
//     (for addressable seats) data-row/data-seat attributes — the
//     interface ticket-inventory collaborators use to map a purchasable
//     unit to a drawn shape. Hit-test overlay rectangles are emitted
//     last, transparent, with pointer events enabled, so a section with
//     hundreds of tiny seats stays a single clickable target.
//
//   - JSON: the raw draw-command list as structured data, for
//     programmatic consumers and golden tests.
//
// Sinks are pure functions of their input; byte-identical commands yield
// byte-identical output.
package floor
