// Package server provides a local HTTP server speaking the libSQL pipeline protocol over a SQLite file.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Pipeline Handler
//
// [PipelineHandler] accepts POST /v2/pipeline bodies of "execute" and "close" requests and runs each
// statement against the database. Statements that start with SELECT, WITH, PRAGMA, EXPLAIN or VALUES
// (or carry a RETURNING clause) produce rows; everything else reports an affected row count.
//
// # Current Usage
//
// The serve command starts this server so the client, the CLI and the TUI can run without a hosted
// database. The end-to-end tests use it in the same way through [net/http/httptest].
//
// # Middleware
//
//   - [RequestLogger] tags every request with an X-Request-ID and logs method, path, status and duration
//   - [BearerAuth] guards the pipeline route with a static token when one is configured
package server
