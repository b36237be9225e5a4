package caps

// Key identifies a claimed capability signature. Equality is exact string
// match on both fields.
type Key struct {
	// Algo is the wire hash algorithm name (e.g., "sha-1", "sha-256").
	Algo string

	// Ver is the claimed verification value: the base64 digest of the
	// canonical verification string.
	Ver string
}

// Advertisement is a capability advertisement carried in presence.
type Advertisement struct {
	// Algo is the hash algorithm name. Empty on legacy advertisements
	// that predate hashed capabilities.
	Algo string

	// Node is the advertising client's node URI (identifies the
	// software, not the capability set).
	Node string

	// Ver is the claimed verification value.
	Ver string
}

// Legacy reports whether the advertisement predates hashed capabilities.
// Legacy advertisements are deliberately ignored: there is no hash to
// verify, so nothing can be cached.
func (a *Advertisement) Legacy() bool {
	return a.Algo == ""
}

// Key returns the capability key the advertisement claims.
func (a *Advertisement) Key() Key {
	return Key{Algo: a.Algo, Ver: a.Ver}
}

// QueryNode returns the node-qualified identifier to probe: the node
// string suffixed with "#" and the verification value.
func (a *Advertisement) QueryNode() string {
	return a.Node + "#" + a.Ver
}
