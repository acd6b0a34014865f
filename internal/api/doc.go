// Package api is the typed routing layer behind stubapi. Handlers never see
// http.ResponseWriter or *http.Request:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Routes are registered with package-level generic functions:
//
//	r := api.New(api.WithTitle("stubapi"), api.WithVersion("0.1.0"))
//	api.Get(r, "/user/{id}", getUser)
//	api.Post(r, "/user", createUser)
//
// Request types bind path and query values through struct tags. A request
// type without any tags is decoded from the JSON body as a whole:
//
//	type UserByID struct {
//	    ID uint64 `path:"id"`
//	}
//
// Non-pointer fields are required; pointer fields are optional and stay nil
// when the value is absent.
//
// The OpenAPI document is not derived from Go types. Every route carries an
// explicit descriptor supplied at registration, and named schemas are
// declared once on the router:
//
//	r := api.New(api.WithSchema("User", userSchema))
//	api.Get(r, "/user/{id}", getUser,
//	    api.WithParams(api.PathParam("id", api.Integer(api.FormatUint64))),
//	    api.WithResponse(api.Array(api.Ref("User"))),
//	)
//	r.ServeSpec("/openapi.json")
//	r.ServeDocs("/swagger/")
//
// Routes marked WithHidden stay reachable but are left out of the document.
package api
