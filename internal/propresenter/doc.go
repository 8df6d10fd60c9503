// Package propresenter wraps the ProPresenter v1 network API.
//
// The package exposes exactly one mechanism: a Client that performs a
// single HTTP request per call and normalizes the outcome into one of four
// shapes the tool layer can hand straight back to an assistant:
//
//   - raw JSON on 2xx (an empty body becomes {"status":"ok"})
//   - *APIError for non-2xx statuses, naming path and status
//   - an ErrCannotConnect-wrapped error naming the configured base URL
//   - an ErrTimeout-wrapped error when the per-call deadline expires
//
// There are no retries, no caching, and no connection state. ProPresenter
// processes one operation at a time; this client does not try to batch or
// serialize on its behalf.
package propresenter
