// Package core provides the dataset loading and row search logic for the
// autoimmune disease database.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used unchanged by the web dashboard, the hlasearch CLI, and
// tests.
//
// # Architecture
//
// The package is organized around two operations:
//
//   - Loading: [Load] parses an uploaded CSV stream into an immutable
//     [Dataset]. [Loader] wraps it with a single-slot cache keyed on the
//     SHA-256 of the upload, so re-submitting the same bytes does not
//     re-parse.
//   - Searching: [Search] returns the rows in which any cell contains the
//     query as a case-insensitive substring, projected onto the display
//     columns.
//
// # Loading
//
// Uploads pass through a streaming pipeline before CSV parsing:
//
//  1. [CountingReader] tracks the number of bytes consumed
//  2. [BOMSkippingReader] drops a leading UTF-8 BOM
//  3. the first bytes are sniffed; binary content is rejected
//  4. [StrictUTF8Reader] fails on invalid UTF-8 or NUL bytes
//
// Loading is all-or-nothing: any failure yields a [*DatasetParseError] and
// no dataset.
//
// # Error Handling
//
// Errors are mapped to user-friendly messages using [MapError]. Each
// category carries a code for support reference:
//
//   - DS001-DS002: Dataset state (not uploaded, no match)
//   - COL001: Display column missing from the dataset
//   - FILE001-FILE006: File errors (size, format, encoding)
//   - UPL002-UPL005: Upload errors (busy, cancelled, timeout)
package core
