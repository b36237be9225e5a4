// Package caps implements entity capabilities: the canonical verification
// string of a disco#info result, the cache binding verification values to
// discovery info, and the resolver that probes advertising peers until one
// of them proves a claimed hash.
//
// A capability advertisement is never trusted on its own. The resolver
// fetches the advertiser's disco#info, recomputes the verification value,
// and caches the info only on an exact match. Peers advertising the same
// key form a fallback pool: if the first one stalls, fails, or lies, the
// next candidate is asked, one outbound probe per key at a time.
package caps
