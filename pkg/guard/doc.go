// Package guard gates HTTP handlers on the session state.
//
// Decide is the pure decision table. Guard.Require turns it into chi
// compatible middleware:
//
//	g := guard.New(guard.WithSource(manager))
//	r.With(g.Require()).Get("/dashboard", dashboard)
//	r.With(g.Require(rbac.RoleAdmin, rbac.RoleManager)).Get("/data/salary-tables", tables)
//
// While the session is still initializing the guard renders a neutral
// placeholder and nothing else. Anonymous visitors are sent to the login
// path; authenticated users lacking a required role are sent to the home
// path, never to login. Every request is evaluated from scratch.
//
// Redirects adapt to the client: 303 for plain requests, HX-Redirect for
// HTMX requests and a datastar SSE redirect for datastar requests.
package guard
