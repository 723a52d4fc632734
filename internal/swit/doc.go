// Package swit is the HTTP client for the Swit Open API.
//
// Every call validates its request, resolves a bearer token (from the OAuth
// coordinator, or the SWIT_API_TOKEN environment variable when no coordinator
// is configured), and normalizes failures:
//
//   - *InvalidArgumentsError: the request failed validation; nothing was sent
//   - *APIError: the API answered with a non-2xx status; the payload is kept verbatim
//   - ErrNoCredentialSource: neither OAuth nor a static token is available
//
// Transport failures (no response received) are returned unwrapped.
package swit
