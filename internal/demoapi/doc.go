// Package demoapi is an in-memory implementation of the products API.
//
// It serves GET/POST /api/v1/products and GET/PUT /api/v1/products/{id} with
// the same status codes and error bodies as the production service, seeded
// with a sample catalog. `stoq serve` runs it for local use and the client
// tests run against its router.
package demoapi
