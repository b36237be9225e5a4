package caps

import (
	"testing"

	"github.com/disco-protocol/disco-go/pkg/disco"
)

// exodusInfo is the simple generation example from the protocol
// documentation: one identity, four features, no forms.
func exodusInfo() *disco.Info {
	return &disco.Info{
		Identities: []disco.Identity{
			{Category: "client", Type: "pc", Name: "Exodus 0.9.1"},
		},
		Features: []string{
			"http://jabber.org/protocol/caps",
			"http://jabber.org/protocol/disco#info",
			"http://jabber.org/protocol/disco#items",
			"http://jabber.org/protocol/muc",
		},
	}
}

// psiInfo is the complex generation example: two localized identities and
// an extended software-info form.
func psiInfo() *disco.Info {
	return &disco.Info{
		Identities: []disco.Identity{
			{Category: "client", Type: "pc", Lang: "en", Name: "Psi 0.11"},
			{Category: "client", Type: "pc", Lang: "el", Name: "Ψ 0.11"},
		},
		Features: []string{
			"http://jabber.org/protocol/caps",
			"http://jabber.org/protocol/disco#info",
			"http://jabber.org/protocol/disco#items",
			"http://jabber.org/protocol/muc",
		},
		Forms: []disco.Form{
			{
				Namespace: disco.NSDataForms,
				Fields: []disco.Field{
					{Var: "FORM_TYPE", Values: []string{"urn:xmpp:dataforms:softwareinfo"}},
					{Var: "ip_version", Values: []string{"ipv4", "ipv6"}},
					{Var: "os", Values: []string{"Mac"}},
					{Var: "os_version", Values: []string{"10.5.1"}},
					{Var: "software", Values: []string{"Psi"}},
					{Var: "software_version", Values: []string{"0.11"}},
				},
			},
		},
	}
}

func TestVerificationStringSimple(t *testing.T) {
	want := "client/pc//Exodus 0.9.1<" +
		"http://jabber.org/protocol/caps<" +
		"http://jabber.org/protocol/disco#info<" +
		"http://jabber.org/protocol/disco#items<" +
		"http://jabber.org/protocol/muc<"

	got := VerificationString(exodusInfo())
	if got != want {
		t.Errorf("VerificationString() = %q, want %q", got, want)
	}
}

func TestVerificationValueKnownVectors(t *testing.T) {
	tests := []struct {
		name string
		algo string
		info *disco.Info
		want string
	}{
		{"Exodus", "sha-1", exodusInfo(), "QgayPKawpkPSDYmwT/WM94uAlu0="},
		{"PsiWithForm", "sha-1", psiInfo(), "q07IKJEyjvHSyhy//CH0CxmKi8w="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := VerificationValue(tt.algo, tt.info)
			if !ok {
				t.Fatalf("VerificationValue(%q) not supported", tt.algo)
			}
			if got != tt.want {
				t.Errorf("VerificationValue(%q) = %q, want %q", tt.algo, got, tt.want)
			}
		})
	}
}

func TestVerificationStringOrderIndependent(t *testing.T) {
	// Same info as psiInfo but with every sequence permuted.
	shuffled := &disco.Info{
		Identities: []disco.Identity{
			{Category: "client", Type: "pc", Lang: "en", Name: "Psi 0.11"},
			{Category: "client", Type: "pc", Lang: "el", Name: "Ψ 0.11"},
		},
		Features: []string{
			"http://jabber.org/protocol/muc",
			"http://jabber.org/protocol/disco#items",
			"http://jabber.org/protocol/caps",
			"http://jabber.org/protocol/disco#info",
		},
		Forms: []disco.Form{
			{
				Namespace: disco.NSDataForms,
				Fields: []disco.Field{
					{Var: "software_version", Values: []string{"0.11"}},
					{Var: "os", Values: []string{"Mac"}},
					{Var: "ip_version", Values: []string{"ipv6", "ipv4"}},
					{Var: "FORM_TYPE", Values: []string{"urn:xmpp:dataforms:softwareinfo"}},
					{Var: "software", Values: []string{"Psi"}},
					{Var: "os_version", Values: []string{"10.5.1"}},
				},
			},
		},
	}

	if got, want := VerificationString(shuffled), VerificationString(psiInfo()); got != want {
		t.Errorf("permuted input produced different string:\n got %q\nwant %q", got, want)
	}
}

func TestVerificationStringIdentitySort(t *testing.T) {
	info := &disco.Info{
		Identities: []disco.Identity{
			{Category: "directory", Type: "chatroom"},
			{Category: "client", Type: "web"},
			{Category: "client", Type: "pc", Lang: "en"},
			{Category: "client", Type: "pc"},
		},
	}

	// Sorted by category, then type, then lang; absent lang sorts first.
	want := "client/pc//<client/pc/en/<client/web//<directory/chatroom//<"
	if got := VerificationString(info); got != want {
		t.Errorf("VerificationString() = %q, want %q", got, want)
	}
}

func TestVerificationStringIgnoresForeignForms(t *testing.T) {
	info := exodusInfo()
	base := VerificationString(info)

	info.Forms = []disco.Form{
		// Wrong namespace
		{
			Namespace: "jabber:iq:register",
			Fields: []disco.Field{
				{Var: "FORM_TYPE", Values: []string{"jabber:iq:register"}},
			},
		},
		// No FORM_TYPE value
		{
			Namespace: disco.NSDataForms,
			Fields: []disco.Field{
				{Var: "os", Values: []string{"Mac"}},
			},
		},
		// Empty FORM_TYPE value
		{
			Namespace: disco.NSDataForms,
			Fields: []disco.Field{
				{Var: "FORM_TYPE", Values: []string{""}},
			},
		},
	}

	if got := VerificationString(info); got != base {
		t.Errorf("foreign forms changed the string:\n got %q\nwant %q", got, base)
	}
}

func TestVerificationValueUnsupportedAlgo(t *testing.T) {
	if _, ok := VerificationValue("md5", exodusInfo()); ok {
		t.Error("VerificationValue(md5) should not be supported")
	}
}

func TestVerificationValueDoesNotMutateInput(t *testing.T) {
	info := psiInfo()
	_, _ = VerificationValue("sha-256", info)

	if info.Features[0] != "http://jabber.org/protocol/caps" {
		t.Error("features were reordered in place")
	}
	if info.Identities[0].Lang != "en" {
		t.Error("identities were reordered in place")
	}
	if info.Forms[0].Fields[0].Var != "FORM_TYPE" {
		t.Error("form fields were reordered in place")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		algo string
		want bool
	}{
		{"sha-1", true},
		{"sha-224", true},
		{"sha-256", true},
		{"sha-384", true},
		{"sha-512", true},
		{"sha3-256", true},
		{"sha3-512", true},
		{"blake2b-256", true},
		{"blake2b-512", true},
		{"md5", false},
		{"SHA-1", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.algo); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.algo, got, tt.want)
		}
	}
}
