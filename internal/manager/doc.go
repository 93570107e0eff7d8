// Package manager implements the operator-facing management operations of
// toolhub: listing, installing and removing connectors, toggling them,
// testing connections and browsing the registry catalog.
//
// A Service is an explicit object built once at bootstrap from its
// collaborators. It holds no state of its own; every call reads the store
// afresh, so changes made by one caller are visible to the next turn.
//
// Management failures are surfaced verbatim. Validation problems come back
// as *api.ValidationError, unknown names as *api.NotFoundError.
package manager
