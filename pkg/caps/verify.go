package caps

import (
	"encoding/base64"
	"sort"
	"strings"

	"github.com/disco-protocol/disco-go/pkg/disco"
)

// VerificationString builds the canonical input string for a capability
// hash from a disco#info result. The construction must be byte-exact;
// interoperability depends on every implementation producing the same
// string for semantically equal input regardless of wire ordering:
//
//  1. Identities sorted by (category, type, lang), each appended as
//     "category/type/lang/name<" with empty strings for absent fields.
//  2. Features sorted, each appended as "feature<".
//  3. Extended data forms restricted to the data-forms namespace with a
//     non-empty FORM_TYPE, sorted by FORM_TYPE value. Per form: the
//     FORM_TYPE value, then each field (except FORM_TYPE) sorted by name,
//     each value sorted, everything "<"-terminated.
//
// All comparisons are ordinal (plain byte-wise string comparison).
func VerificationString(info *disco.Info) string {
	var b strings.Builder

	ids := make([]disco.Identity, len(info.Identities))
	copy(ids, info.Identities)
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Category != ids[j].Category {
			return ids[i].Category < ids[j].Category
		}
		if ids[i].Type != ids[j].Type {
			return ids[i].Type < ids[j].Type
		}
		return ids[i].Lang < ids[j].Lang
	})
	for _, id := range ids {
		b.WriteString(id.Category)
		b.WriteByte('/')
		b.WriteString(id.Type)
		b.WriteByte('/')
		b.WriteString(id.Lang)
		b.WriteByte('/')
		b.WriteString(id.Name)
		b.WriteByte('<')
	}

	features := make([]string, len(info.Features))
	copy(features, info.Features)
	sort.Strings(features)
	for _, f := range features {
		b.WriteString(f)
		b.WriteByte('<')
	}

	forms := sortedForms(info.Forms)
	for _, form := range forms {
		b.WriteString(form.FormType())
		b.WriteByte('<')
		for _, field := range sortedFields(form.Fields) {
			b.WriteString(field.Var)
			b.WriteByte('<')
			values := make([]string, len(field.Values))
			copy(values, field.Values)
			sort.Strings(values)
			for _, v := range values {
				b.WriteString(v)
				b.WriteByte('<')
			}
		}
	}

	return b.String()
}

// VerificationValue hashes the canonical string of info with the named
// algorithm and returns the base64-encoded digest (standard alphabet, with
// padding). ok is false when the algorithm is unsupported; the caller must
// then decline processing rather than treat it as an error.
func VerificationValue(algo string, info *disco.Info) (value string, ok bool) {
	h, ok := newHash(algo)
	if !ok {
		return "", false
	}
	h.Write([]byte(VerificationString(info)))
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), true
}

// sortedForms filters forms to data-forms-namespace forms with a non-empty
// FORM_TYPE and sorts them by FORM_TYPE value.
func sortedForms(forms []disco.Form) []disco.Form {
	out := make([]disco.Form, 0, len(forms))
	for _, f := range forms {
		if f.Namespace != disco.NSDataForms {
			continue
		}
		if f.FormType() == "" {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FormType() < out[j].FormType()
	})
	return out
}

// sortedFields drops the FORM_TYPE field and sorts the rest by field name.
func sortedFields(fields []disco.Field) []disco.Field {
	out := make([]disco.Field, 0, len(fields))
	for _, f := range fields {
		if f.Var == disco.FormTypeVar {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Var < out[j].Var
	})
	return out
}
