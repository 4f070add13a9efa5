// Package gate decides whether a request may reach its resource.
//
// Every request starts Unchecked and ends Exempt, Authorized or Rejected.
// Exempt resources (login by default) pass without a token. Everything
// else needs an x-token header that the login resource, reached through
// the registry, accepts for the caller's address. A missing token and a
// rejected token produce the same domain.ErrUnauthorized.
//
// Authorized requests are then checked against the role policy. The
// resolved domain.UserContext travels in the request context; see
// WithUser and UserFromContext.
package gate
