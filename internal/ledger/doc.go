// Package ledger implements the heuristic extraction and classification
// engine for general-ledger worksheets: locating the header row in a
// messy grid, turning the rows below it into clean records, filtering
// subtotal and carry-forward noise, resolving which columns carry the
// date, debit, credit, vendor and description roles, classifying
// accounts from their sheet names, and folding records into monthly or
// per-vendor aggregates.
//
// Every component is a pure computation over an in-memory grid. A sheet
// with no usable data yields an empty result, never an error; one
// malformed sheet must not abort a workbook batch. All keyword
// heuristics live in Vocabulary and are injected at construction.
package ledger
