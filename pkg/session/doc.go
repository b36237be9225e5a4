// Package session ties the discovery engine together: one Session per
// connection owns the disco#info/disco#items caches, the capability
// binding registry, the capability resolver, and the query client.
//
// All long-lived discovery state is explicit on the Session - there are no
// ambient globals. Construct a Session when the connection is established
// and drop it on disconnect; nothing persists across restarts.
//
// The surrounding stanza layer feeds the Session from two directions:
// results and error responses go to Session.Client().HandleResult /
// HandleError, and capability-bearing presence goes to
// Session.HandlePresence.
package session
