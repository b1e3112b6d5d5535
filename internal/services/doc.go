// Package services implements the client for the hosted summary database.
//
// # Pipeline Client
//
// [PipelineClient] POSTs single-statement pipelines to the store's /v2/pipeline endpoint:
//
//	{"requests":[{"type":"execute","stmt":{"sql":"...","args":[...]}}]}
//
// and decodes the first result:
//
//	{"results":[{"type":"ok","response":{"type":"execute","result":{"cols":[...],"rows":[[{"type":"integer","value":"1"}, ...]]}}}]}
//
// The bearer credential is attached by an [oauth2.Transport] wrapping a static token source,
// requests carry an X-Request-ID for log correlation, and every call is bounded by the client timeout
// (10 seconds unless configured). An optional [rate.Limiter] paces requests.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-200 status
//   - [shared.ErrTimeout] : client timeout or canceled context
//   - [shared.ErrDecode] : body is not a pipeline response
//   - [shared.ErrStatement] : the store rejected the statement
//
// Callers that only care whether a result is present test err != nil.
//
// # Wire Types
//
// [Value] encodes statement arguments and [Cell] decodes row values. A cell lacking a "value" key is null;
// integers are accepted both as JSON numbers and as decimal strings. The same types are reused by the
// local pipeline server in package server.
package services
