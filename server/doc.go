// Package server provides the HTTP surface of an authkit service: a
// Gin-backed server with the standard middleware stack and the handler
// exposing the authentication entry points.
//
// The handler drives registered auth.Strategy instances through their
// request and callback phases and turns recorded failures into
// structured error responses:
//
//	GET /auth/:provider           -> authorization redirect
//	GET /auth/:provider/callback  -> identity JSON or failure list
package server
