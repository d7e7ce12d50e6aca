// Package source is the endpoint registry for the Megastudy entrance-info
// portal. It maps each supported section to its list/detail endpoints,
// the referer the portal expects, and pure functions that build the query
// parameters those endpoints take.
//
// Design decision: The registry is data, not behavior. Everything
// structure-dependent about the portal's URL space lives here so the
// fetch and crawler packages stay portal-agnostic.
package source
