package interactive

import (
	"testing"

	"github.com/disco-protocol/disco-go/pkg/caps"
	"github.com/disco-protocol/disco-go/pkg/linklocal"
)

func TestFormatPeerLine(t *testing.T) {
	tests := []struct {
		name string
		peer *linklocal.Presence
		want string
	}{
		{
			"Minimal",
			&linklocal.Presence{InstanceName: "juliet@capulet"},
			"juliet@capulet",
		},
		{
			"WithJID",
			&linklocal.Presence{InstanceName: "juliet@capulet", JID: "juliet@capulet.lit"},
			"juliet@capulet <juliet@capulet.lit>",
		},
		{
			"JIDSameAsInstance",
			&linklocal.Presence{InstanceName: "juliet@capulet", JID: "juliet@capulet"},
			"juliet@capulet",
		},
		{
			"Full",
			&linklocal.Presence{
				InstanceName: "romeo@montague",
				JID:          "romeo@montague.lit",
				Status:       "away",
				Caps:         &caps.Advertisement{Algo: "sha-1", Node: "n", Ver: "abc="},
			},
			"romeo@montague <romeo@montague.lit> (away) caps=sha-1:abc=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPeerLine(tt.peer); got != tt.want {
				t.Errorf("formatPeerLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
