// Package repositories implements access to the remote Youtube_Summaries table.
//
// [SummaryRepository] builds its statements with squirrel and runs them through a [services.Executor]:
//   - List : wide nine-column select ordered by ID descending, with a single six-column fallback
//   - Get : the same projections filtered by ID
//   - Delete : DELETE keyed by ID
//
// Results are returned as a [QueryResult] tagged with the [models.Schema] that produced them and
// [MapRow] maps each row by that schema's column order. Rows whose ID cannot be read are skipped and counted.
package repositories
