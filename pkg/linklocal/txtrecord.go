package linklocal

import (
	"fmt"
	"strings"

	"github.com/disco-protocol/disco-go/pkg/caps"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodePresenceTXT creates TXT records for a presence advertisement.
func EncodePresenceTXT(info *PresenceInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyTxtVers] = TxtVersion

	// Optional identity fields
	if info.JID != "" {
		txt[TXTKeyJID] = info.JID
	}
	if info.Nick != "" {
		txt[TXTKeyNick] = info.Nick
	}
	if info.First != "" {
		txt[TXTKeyFirst] = info.First
	}
	if info.Last != "" {
		txt[TXTKeyLast] = info.Last
	}
	if info.Status != "" {
		txt[TXTKeyStatus] = info.Status
	}
	if info.Msg != "" {
		txt[TXTKeyMsg] = info.Msg
	}

	// Capability advertisement; legacy (hash-less) advertisements are
	// never written.
	if info.Caps != nil && !info.Caps.Legacy() {
		txt[TXTKeyNode] = info.Caps.Node
		txt[TXTKeyVer] = info.Caps.Ver
		txt[TXTKeyHash] = info.Caps.Algo
	}

	return txt
}

// DecodePresenceTXT parses TXT records from a presence advertisement.
// Unknown keys are ignored. The capability advertisement is only
// reconstructed when node, ver, and hash are all present.
func DecodePresenceTXT(txt TXTRecordMap) *Presence {
	p := &Presence{
		JID:    txt[TXTKeyJID],
		Nick:   txt[TXTKeyNick],
		First:  txt[TXTKeyFirst],
		Last:   txt[TXTKeyLast],
		Status: txt[TXTKeyStatus],
		Msg:    txt[TXTKeyMsg],
	}

	node, hasNode := txt[TXTKeyNode]
	ver, hasVer := txt[TXTKeyVer]
	algo, hasAlgo := txt[TXTKeyHash]
	if hasNode && hasVer && hasAlgo && node != "" && ver != "" && algo != "" {
		p.Caps = &caps.Advertisement{
			Algo: algo,
			Node: node,
			Ver:  ver,
		}
	}

	return p
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a
// TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}
