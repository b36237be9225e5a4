// Package disco defines the service discovery data model shared by the
// rest of the module: identities, features, items, and extended data forms
// as disclosed in disco#info and disco#items results.
//
// Values of these types are treated as immutable once constructed. The
// caches in pkg/session and pkg/caps hand out the same *Info to multiple
// callers; callers must not mutate them.
package disco
