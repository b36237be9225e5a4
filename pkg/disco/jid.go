package disco

import "strings"

// Bare returns the bare form of an entity address: everything before the
// first "/". An address without a resource is returned unchanged.
func Bare(entity string) string {
	if i := strings.IndexByte(entity, '/'); i >= 0 {
		return entity[:i]
	}
	return entity
}

// Resource returns the resource part of an entity address: everything after
// the first "/", or the empty string if the address has no resource.
func Resource(entity string) string {
	if i := strings.IndexByte(entity, '/'); i >= 0 {
		return entity[i+1:]
	}
	return ""
}
