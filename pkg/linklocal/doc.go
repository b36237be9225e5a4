// Package linklocal implements serverless presence over mDNS/DNS-SD.
//
// Entities on the local link advertise a _presence._tcp service whose TXT
// record carries their identity and, when capable, an entity-capabilities
// advertisement (the node, ver, and hash keys). Browsing peers can feed
// those advertisements straight into the capability resolver, so local
// peers are verified with the same machinery as server-mediated ones.
package linklocal
