// Package stoqapi provides an HTTP client for the products API.
//
// # Endpoints
//
//   - GET /api/v1/products?page=&size=&name=: one page plus the total count
//   - GET /api/v1/products/{id}: a single product
//   - POST /api/v1/products: create
//   - PUT /api/v1/products/{id}: partial update
//
// # Requests
//
// All requests set Accept: application/json and User-Agent: stoq/0.1, honour
// the caller's context, and are bounded by a per-attempt timeout (5 seconds by
// default). Transport goes through go-retryablehttp; with the default
// RetryMax of 0 every call is a single attempt, so retrying is left to the
// user (any navigation refetches).
//
// Product ids are checked to be UUIDs before a request is built; a malformed
// id yields ErrInvalidID without touching the network.
//
// # Errors
//
// Non-2xx responses become *APIError carrying the method, path, status and
// body text. Detail unwraps {"detail": ...} bodies, including the list form
// produced for field validation failures:
//
//	create product: api POST /api/v1/products returned status 422: ean: EAN must be exactly 13 digits
//
// IsNotFound and IsValidation classify errors without string matching.
//
// # List controller integration
//
// ProductSource adapts any ProductLister to listctl.DataSource so a
// listctl.Controller can drive it:
//
//	src := stoqapi.ProductSource{API: client}
//	for req, ok := ctrl.Start(); ok; req, ok = ctrl.Apply(listctl.Run(ctx, req, src)) {
//	}
//
// The client holds no mutable state and is safe for concurrent use.
package stoqapi
