// Package dispatch sends catalog-backed requests to a single HTTP endpoint.
//
// # Lifecycle of a call
//
// Dispatch moves through these steps and stops at the first failure:
//
//  1. Validate: the catalog must be loaded, the format must be listed and map
//     to a transport style, and the pattern must be listed. A failure is
//     StateRejected with ErrRejected and the Reason that fired. Nothing is sent.
//  2. Resolve: the pattern's parameters are copied from the catalog. A listed
//     pattern without parameters is StateFailed with ErrInconsistent.
//  3. Send: exactly one request within Config.Timeout (30s by default).
//  4. Normalize: status, headers, final URL and body are recorded; the body is
//     decoded into Outcome.JSON when it is valid JSON.
//
// # Transport styles
//
//   - get: parameters become the query string of a GET request.
//   - post_json: parameters are the JSON body, Content-Type application/json.
//   - post_form: parameters are a URL-encoded form body.
//
// # Errors
//
// Network, DNS and timeout failures are StateFailed with ErrTransport and no
// status code; Error.Timeout flags the timeout case. A 4xx or 5xx response is
// not a failure: it is StateSucceeded with the status recorded, and
// Outcome.OK reports false.
//
// Dispatchers hold no mutable state and may be used from several goroutines.
package dispatch
