// Package venue defines the editable model of a venue seating chart: typed
// sections (stage, seating rows, balconies, bar, tables, sofas, dance
// floor), the shared category palette, and the Store that owns both.
//
// The Store is the single writer of the model. Layout and rendering consume
// immutable snapshots of it; the drag controller and configuration editors
// feed mutations back through its operations.
//
// # Ownership
//
// Balconies of kind "tables" or "sofas" own child table/sofa sections via
// the child's BalconyID back-reference. The Store maintains an explicit
// parent→children index so layout passes never scan the full section list,
// and deleting a balcony cascades to its children.
//
// # Categories
//
// Every non-stage, non-bar section derives a category from its label at
// creation time ("ROWS 2" → slug "rows_2"). Categories are garbage
// collected once unreferenced; removal is deferred to the next tick (see
// [Store.Sweep]) to avoid ordering hazards between section and category
// updates.
package venue
