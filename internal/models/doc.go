// Package models defines the domain entity of ytsum.
//
// A [Record] is one video's metadata and its three alternate AI-generated summaries, as stored in the
// remote Youtube_Summaries table. Records are created only by mapping a query row, never edited, and
// destroyed by an explicit delete.
//
// [Schema] tags the projection a row came from: [SchemaWide] carries the summaries, [SchemaNarrow] is the
// fallback without them. Mapping is driven by the tag, never by counting values in a row.
package models
