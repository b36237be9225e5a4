package linklocal

import (
	"errors"
	"time"

	"github.com/disco-protocol/disco-go/pkg/caps"
)

// Service constants for mDNS.
const (
	// ServiceType is the DNS-SD service type for link-local presence.
	ServiceType = "_presence._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the conventional link-local messaging port.
	DefaultPort = 5562
)

// TXT record key constants.
const (
	TXTKeyTxtVers = "txtvers" // TXT record schema version (always "1")
	TXTKeyJID     = "jid"     // Entity address (optional)
	TXTKeyNick    = "nick"    // Nickname (optional)
	TXTKeyFirst   = "1st"     // First name (optional)
	TXTKeyLast    = "last"    // Last name (optional)
	TXTKeyStatus  = "status"  // Availability: avail, away, dnd (optional)
	TXTKeyMsg     = "msg"     // Status message (optional)

	// Capability advertisement keys. All three must be present for the
	// advertisement to count.
	TXTKeyNode = "node" // Caps node URI
	TXTKeyVer  = "ver"  // Claimed verification value
	TXTKeyHash = "hash" // Hash algorithm name
)

// TxtVersion is the TXT record schema version this package writes.
const TxtVersion = "1"

// Timing constants.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotAdvertising      = errors.New("not advertising")
)

// PresenceInfo contains information for advertising own link-local
// presence.
type PresenceInfo struct {
	// InstanceName is the mDNS instance name, conventionally
	// "user@machine".
	InstanceName string

	// JID is the optional entity address to expose.
	JID string

	// Nick is the optional nickname.
	Nick string

	// First and Last are the optional legal name parts.
	First string
	Last  string

	// Status is the optional availability (avail, away, dnd).
	Status string

	// Msg is the optional status message.
	Msg string

	// Caps is the optional capability advertisement to publish.
	Caps *caps.Advertisement

	// Port is the service port.
	Port uint16

	// Host is the hostname to advertise.
	Host string
}

// Validate checks if the PresenceInfo is valid.
func (p *PresenceInfo) Validate() error {
	if p.InstanceName == "" {
		return ErrMissingRequired
	}
	if len(p.InstanceName) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}

// Presence represents a peer's link-local presence found via mDNS.
type Presence struct {
	// InstanceName is the mDNS instance name (e.g., "juliet@capulet").
	InstanceName string

	// Host is the hostname.
	Host string

	// Port is the service port.
	Port uint16

	// Addresses contains resolved IP addresses.
	Addresses []string

	// JID is the entity address (from TXT "jid"), if exposed.
	JID string

	// Nick is the nickname (from TXT "nick").
	Nick string

	// First and Last are the legal name parts (from TXT "1st"/"last").
	First string
	Last  string

	// Status is the availability (from TXT "status").
	Status string

	// Msg is the status message (from TXT "msg").
	Msg string

	// Caps is the capability advertisement (from TXT "node"/"ver"/
	// "hash"), or nil when the peer does not advertise one.
	Caps *caps.Advertisement
}

// Entity returns the address to use for the peer: the exposed JID when
// present, the instance name otherwise.
func (p *Presence) Entity() string {
	if p.JID != "" {
		return p.JID
	}
	return p.InstanceName
}
