package disco

// Protocol namespaces.
const (
	// NSInfo is the disco#info query namespace.
	NSInfo = "http://jabber.org/protocol/disco#info"

	// NSItems is the disco#items query namespace.
	NSItems = "http://jabber.org/protocol/disco#items"

	// NSCaps is the entity capabilities namespace.
	NSCaps = "http://jabber.org/protocol/caps"

	// NSDataForms is the extended data forms namespace.
	// Only forms declared under this namespace contribute to the
	// capability verification string.
	NSDataForms = "jabber:x:data"
)

// FormTypeVar is the distinguished field name identifying the schema of an
// extended data form.
const FormTypeVar = "FORM_TYPE"

// Identity describes one identity of an entity as reported in a disco#info
// result. Category and Type are always present on the wire; Name and Lang
// may be absent (empty string).
type Identity struct {
	// Category is the identity category (e.g., "client", "conference").
	Category string

	// Type is the identity type within the category (e.g., "pc").
	Type string

	// Name is the optional human-readable name.
	Name string

	// Lang is the optional language tag of Name.
	Lang string
}

// Field is a single field of an extended data form: a name and its ordered
// values.
type Field struct {
	// Var is the field name.
	Var string

	// Values holds the field values in wire order.
	Values []string
}

// Form is an extended data form attached to a disco#info result.
type Form struct {
	// Namespace is the namespace the form was declared under.
	// Forms outside NSDataForms are ignored by the verification string.
	Namespace string

	// Fields holds the form fields in wire order, including FORM_TYPE.
	Fields []Field
}

// FormType returns the first value of the form's FORM_TYPE field, or the
// empty string if the form has none.
func (f *Form) FormType() string {
	for _, field := range f.Fields {
		if field.Var == FormTypeVar {
			if len(field.Values) == 0 {
				return ""
			}
			return field.Values[0]
		}
	}
	return ""
}

// Info is the parsed result of a disco#info query: the identities,
// features, and extended data forms one entity (or node) discloses.
type Info struct {
	// Node is the node reported in the result, if any. Responders may
	// redirect a query to a different node; the reported node is
	// authoritative for caching.
	Node string

	// Identities holds the disclosed identities in wire order.
	Identities []Identity

	// Features holds the disclosed feature namespaces in wire order.
	Features []string

	// Forms holds any extended data forms in wire order.
	Forms []Form
}

// HasFeature reports whether the info discloses the given feature.
func (i *Info) HasFeature(feature string) bool {
	for _, f := range i.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Item is one entry of a disco#items result.
type Item struct {
	// JID is the address of the item, if any.
	JID string

	// Node is the optional sub-node of the item.
	Node string

	// Name is the optional human-readable name.
	Name string
}
