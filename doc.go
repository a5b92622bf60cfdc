// Package pint is an OpenAPI 3.0 micro-framework for Go. Routes declare
// their expected request bodies as JSON Schema validators, the framework
// enforces them before handler dispatch, and the OpenAPI document is
// generated from the registered routes.
//
// Schemas can be defined inline or resolved by reference out of a base
// schema document (the components section of an OpenAPI file):
//
//	doc, _ := pint.LoadSchemaFile("schema.json")
//	r := pint.New(pint.WithTitle("My API"), pint.WithBaseSchema(doc))
//	user, _ := r.CreateRefValidator("User")
//	pint.Post[pint.Void, CreateResp](r, "/users", createUser, pint.ExpectJSON(user))
//
// A request whose body does not match the declared schema is rejected with
// a structured 400 response before the handler runs; a request with an
// undeclared content type is rejected with 415. Handler types still follow
// the typed signature
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// so param binding and response serialization stay derived from Go types.
//
// Middleware uses the standard func(http.Handler) http.Handler signature,
// so the entire Go middleware ecosystem works natively.
//
// The OpenAPI 3.0 document is generated from registered routes and served
// with:
//
//	r.ServeSpec("/openapi.json")
package pint
