// Package routes builds URLs for the Quarry deployment REST API.
//
// This package is internal to quarry-go. A [Builder] is bound to one
// deployment host and one owner/project pair, and exposes one method per
// API route. Path parameters are escaped; no network access happens here.
package routes
