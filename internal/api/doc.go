// Package api provides the HTTP request manager used by the quarry client.
//
// This package is internal to quarry-go and handles the mechanics of talking
// to a Quarry deployment: connection pooling, credential injection, JSON
// encoding and decoding, request correlation IDs, and the classification of
// errors as transient or permanent.
//
// The main components are:
//
//   - [Client]: pooled HTTP client with typed request helpers
//   - [Credentials]: authentication strategies ([APIKey], [TokenFile])
//   - [HTTPError]: non-2xx responses with transient classification
//
// Users of the quarry library should not need to interact with this package
// directly. Requests are managed internally by the quarry.Client.
package api
