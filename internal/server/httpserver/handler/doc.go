// Package handler implements the HTTP side of restgate.
//
// A Dispatcher resolves the resource named in the request path, runs the
// authorization gate and hands the request, with its path trimmed to the
// part after the resource segment, to the controller the registry built
// for that resource. Controllers for the built-in resources live here too
// and are registered in a registry.Catalog by NewCatalog.
//
// Success responses carry the resource data as plain JSON. Failures are
// written as an ErrorResponse whose HTTP status comes from the domain error
// code.
package handler
