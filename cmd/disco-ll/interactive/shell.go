// Package interactive provides the interactive command-line interface
// for the link-local presence browser.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/disco-protocol/disco-go/pkg/linklocal"
)

// Shell handles interactive mode for disco-ll.
type Shell struct {
	browser    *linklocal.Browser
	advertiser *linklocal.Advertiser
	rl         *readline.Instance

	mu          sync.Mutex
	info        *linklocal.PresenceInfo
	peers       map[string]*linklocal.Presence
	advertising bool
}

// New creates a new interactive shell.
func New(browser *linklocal.Browser, advertiser *linklocal.Advertiser, info *linklocal.PresenceInfo, advertising bool) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "disco> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		browser:     browser,
		advertiser:  advertiser,
		rl:          rl,
		info:        info,
		peers:       make(map[string]*linklocal.Presence),
		advertising: advertising,
	}, nil
}

// Stdout returns a writer that coordinates with the readline input. Use it
// for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts browsing and the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	added, removed, err := s.browser.Browse(ctx)
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "Failed to browse: %v\n", err)
		return
	}
	go s.watch(ctx, added, removed)

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "peers", "p", "list", "l":
			s.cmdPeers()

		case "show", "s":
			s.cmdShow(args)

		case "status":
			s.cmdStatus(args)

		case "advertise":
			s.cmdAdvertise(args)

		case "me":
			s.cmdMe()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

// watch consumes browse events and keeps the peer table current.
func (s *Shell) watch(ctx context.Context, added <-chan *linklocal.Presence, removed <-chan string) {
	for {
		select {
		case p, ok := <-added:
			if !ok {
				return
			}
			s.mu.Lock()
			s.peers[p.InstanceName] = p
			s.mu.Unlock()
			fmt.Fprintf(s.rl.Stdout(), "+ %s\n", formatPeerLine(p))

		case instance, ok := <-removed:
			if !ok {
				return
			}
			s.mu.Lock()
			delete(s.peers, instance)
			s.mu.Unlock()
			fmt.Fprintf(s.rl.Stdout(), "- %s\n", instance)

		case <-ctx.Done():
			return
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Link-Local Presence Commands:
  Browsing:
    peers              - List discovered peers
    show <instance>    - Show peer details (addresses, capabilities)

  Own Presence:
    me                 - Show own advertised presence
    status <st> [msg]  - Update availability (avail, away, dnd)
    advertise on|off   - Start or stop advertising

  General:
    help               - Show this help
    quit               - Exit`)
}

// cmdPeers lists discovered peers.
func (s *Shell) cmdPeers() {
	s.mu.Lock()
	peers := make([]*linklocal.Presence, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	if len(peers) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No peers discovered yet")
		return
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].InstanceName < peers[j].InstanceName
	})
	for _, p := range peers {
		fmt.Fprintf(s.rl.Stdout(), "  %s\n", formatPeerLine(p))
	}
}

// cmdShow shows details of one peer.
func (s *Shell) cmdShow(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: show <instance>")
		return
	}

	s.mu.Lock()
	p, ok := s.peers[args[0]]
	s.mu.Unlock()
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown peer: %s\n", args[0])
		return
	}

	w := s.rl.Stdout()
	fmt.Fprintf(w, "Instance: %s\n", p.InstanceName)
	fmt.Fprintf(w, "Entity: %s\n", p.Entity())
	if p.Nick != "" {
		fmt.Fprintf(w, "Nick: %s\n", p.Nick)
	}
	if p.First != "" || p.Last != "" {
		fmt.Fprintf(w, "Name: %s %s\n", p.First, p.Last)
	}
	if p.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", p.Status)
	}
	if p.Msg != "" {
		fmt.Fprintf(w, "Message: %s\n", p.Msg)
	}
	fmt.Fprintf(w, "Host: %s:%d\n", p.Host, p.Port)
	for _, addr := range p.Addresses {
		fmt.Fprintf(w, "Address: %s\n", addr)
	}
	if p.Caps != nil {
		fmt.Fprintf(w, "Capabilities: %s %s (node %s)\n", p.Caps.Algo, p.Caps.Ver, p.Caps.Node)
	} else {
		fmt.Fprintln(w, "Capabilities: none advertised")
	}
}

// cmdStatus updates own availability and re-advertises.
func (s *Shell) cmdStatus(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: status <avail|away|dnd> [message]")
		return
	}

	status := args[0]
	switch status {
	case "avail", "away", "dnd":
	default:
		fmt.Fprintf(s.rl.Stdout(), "Invalid status: %s (want avail, away, or dnd)\n", status)
		return
	}

	s.mu.Lock()
	s.info.Status = status
	s.info.Msg = strings.Join(args[1:], " ")
	info := *s.info
	advertising := s.advertising
	s.mu.Unlock()

	if !advertising {
		fmt.Fprintln(s.rl.Stdout(), "Status saved; not advertising (use 'advertise on')")
		return
	}
	if err := s.advertiser.Advertise(&info); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to update advertisement: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Status updated: %s\n", status)
}

// cmdAdvertise starts or stops advertising.
func (s *Shell) cmdAdvertise(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: advertise on|off")
		return
	}

	switch args[0] {
	case "on":
		s.mu.Lock()
		info := *s.info
		s.mu.Unlock()
		if err := s.advertiser.Advertise(&info); err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Failed to advertise: %v\n", err)
			return
		}
		s.mu.Lock()
		s.advertising = true
		s.mu.Unlock()
		fmt.Fprintln(s.rl.Stdout(), "Advertising presence")

	case "off":
		if err := s.advertiser.Stop(); err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Failed to stop: %v\n", err)
			return
		}
		s.mu.Lock()
		s.advertising = false
		s.mu.Unlock()
		fmt.Fprintln(s.rl.Stdout(), "Advertisement withdrawn")

	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: advertise on|off")
	}
}

// cmdMe shows own advertised presence.
func (s *Shell) cmdMe() {
	s.mu.Lock()
	info := *s.info
	advertising := s.advertising
	s.mu.Unlock()

	w := s.rl.Stdout()
	fmt.Fprintf(w, "Instance: %s\n", info.InstanceName)
	if info.JID != "" {
		fmt.Fprintf(w, "Entity: %s\n", info.JID)
	}
	if info.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", info.Status)
	}
	if info.Msg != "" {
		fmt.Fprintf(w, "Message: %s\n", info.Msg)
	}
	if info.Caps != nil {
		fmt.Fprintf(w, "Capabilities: %s %s (node %s)\n", info.Caps.Algo, info.Caps.Ver, info.Caps.Node)
	}
	if advertising {
		fmt.Fprintln(w, "Advertising: yes")
	} else {
		fmt.Fprintln(w, "Advertising: no")
	}
}

// formatPeerLine formats a one-line peer summary.
func formatPeerLine(p *linklocal.Presence) string {
	line := p.InstanceName
	if p.JID != "" && p.JID != p.InstanceName {
		line += " <" + p.JID + ">"
	}
	if p.Status != "" {
		line += " (" + p.Status + ")"
	}
	if p.Caps != nil {
		line += " caps=" + p.Caps.Algo + ":" + p.Caps.Ver
	}
	return line
}
