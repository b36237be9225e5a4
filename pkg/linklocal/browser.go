package linklocal

import (
	"context"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}

// Browser discovers link-local presence on the local network.
type Browser struct {
	config BrowserConfig

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewBrowser creates a new presence browser.
func NewBrowser(config BrowserConfig) *Browser {
	return &Browser{config: config}
}

// Browse searches for link-local presence. Returns two channels: added
// (new or updated peers) and removed (instance names of peers that
// disappeared). Both are closed when the context is cancelled. Addresses
// from multiple interfaces are aggregated into a single entry per
// instance.
func (b *Browser) Browse(ctx context.Context) (added <-chan *Presence, removed <-chan string, err error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, nil, context.Canceled
	}
	ctx, b.cancel = context.WithCancel(ctx)
	b.mu.Unlock()

	out := make(chan *Presence)
	gone := make(chan string)

	entries := make(chan *zeroconf.ServiceEntry)
	removedEntries := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		defer close(out)
		defer close(gone)

		// Track peers by instance name, aggregating addresses.
		peers := make(map[string]*Presence)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				p := entryToPresence(entry)
				if p == nil {
					continue
				}

				existing, found := peers[p.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, p.Addresses)
					continue
				}
				peers[p.InstanceName] = p
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removedEntries:
				if !ok {
					continue
				}
				if _, found := peers[entry.Instance]; found {
					delete(peers, entry.Instance)
					select {
					case gone <- entry.Instance:
					case <-ctx.Done():
						return
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removedEntries, opts...)
	}()

	return out, gone, nil
}

// Stop stops the active browse operation.
func (b *Browser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	if b.cancel != nil {
		b.cancel()
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToPresence converts a zeroconf entry to a Presence.
func entryToPresence(entry *zeroconf.ServiceEntry) *Presence {
	p := DecodePresenceTXT(StringsToTXTRecords(entry.Text))

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	p.InstanceName = entry.Instance
	p.Host = entry.HostName
	p.Port = uint16(entry.Port)
	p.Addresses = addrs
	return p
}

// mergeAddresses combines two address lists without duplicates.
func mergeAddresses(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a] = true
	}
	for _, a := range incoming {
		if !seen[a] {
			existing = append(existing, a)
			seen[a] = true
		}
	}
	return existing
}
