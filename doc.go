// Package bizdoc renders small-business documents (invoices, estimates,
// debit notes, receipts, reports) from a declarative, user-editable
// template to paginated PDF artifacts and raster preview images.
//
// The module is organized as a pipeline of small packages:
//
//   - template: the declarative template model (colors, fonts, layout
//     geometry, section ordering, content) with validation, presets,
//     and JSON export/import.
//   - record: the business data rendered into a template (line items,
//     party, tax-inclusive totals) and the shared money formatting.
//   - layout: the deterministic layout engine that turns a template and
//     a record into a display list of placed primitives.
//   - render: walks a display list and paints it onto a canvas; PDF and
//     raster canvases are provided.
//   - preview: a debounced, cancellable live-preview pipeline producing
//     raster frames as a template is edited.
//   - editor: bounded snapshot history for undo/redo and the storage
//     collaborator interfaces.
//   - bundle: combines rendered artifacts into a single PDF.
//   - mcp: a stdio JSON-RPC server exposing rendering, validation, and
//     merging as Model Context Protocol tools.
//
// Persistence, cloud sync, and authentication are external concerns;
// the packages here only consume the narrow interfaces in editor.
package bizdoc
