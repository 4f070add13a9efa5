// Package registry materializes resources on first use and keeps exactly
// one service and one controller per resource for the life of the process.
//
// Implementations are registered up front in a Catalog under identifiers
// built from the route mapping:
//
//	<workspace>.<Impl>.<Impl>Service
//	<workspace>.<Impl>.<Impl>Controller
//
// Resolve looks a resource up in a sharded cache. On a miss it consults the
// mapping and builds the pair inside a single flight keyed by the resource
// name, so concurrent first requests construct once. A name without a
// mapping yields domain.ErrResourceNotFound.
//
// Factories may resolve other resources through the Locator they receive,
// but never their own name: the nested call would wait on its own flight.
package registry
