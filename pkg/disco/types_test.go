package disco

import "testing"

func TestBareAndResource(t *testing.T) {
	tests := []struct {
		entity   string
		bare     string
		resource string
	}{
		{"romeo@montague.lit/orchard", "romeo@montague.lit", "orchard"},
		{"romeo@montague.lit", "romeo@montague.lit", ""},
		{"montague.lit", "montague.lit", ""},
		{"romeo@montague.lit/with/slash", "romeo@montague.lit", "with/slash"},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := Bare(tt.entity); got != tt.bare {
			t.Errorf("Bare(%q) = %q, want %q", tt.entity, got, tt.bare)
		}
		if got := Resource(tt.entity); got != tt.resource {
			t.Errorf("Resource(%q) = %q, want %q", tt.entity, got, tt.resource)
		}
	}
}

func TestFormType(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want string
	}{
		{
			"Present",
			Form{Fields: []Field{
				{Var: "os", Values: []string{"Mac"}},
				{Var: FormTypeVar, Values: []string{"urn:xmpp:dataforms:softwareinfo"}},
			}},
			"urn:xmpp:dataforms:softwareinfo",
		},
		{
			"Missing",
			Form{Fields: []Field{{Var: "os", Values: []string{"Mac"}}}},
			"",
		},
		{
			"NoValues",
			Form{Fields: []Field{{Var: FormTypeVar}}},
			"",
		},
		{
			"MultipleValuesFirstWins",
			Form{Fields: []Field{{Var: FormTypeVar, Values: []string{"a", "b"}}}},
			"a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.form.FormType(); got != tt.want {
				t.Errorf("FormType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasFeature(t *testing.T) {
	info := &Info{Features: []string{NSInfo, NSItems}}

	if !info.HasFeature(NSInfo) {
		t.Error("HasFeature(NSInfo) = false, want true")
	}
	if info.HasFeature(NSCaps) {
		t.Error("HasFeature(NSCaps) = true, want false")
	}
}
