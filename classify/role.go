// Package classify assigns semantic roles to the paragraphs of a Chinese
// official-style document and splits heading paragraphs that carry trailing
// body text. Classification is a pure function over a frozen snapshot of the
// document's texts; the splitter is the only mutating entry point and runs
// before any snapshot is taken.
package classify

// Role is the semantic category of a paragraph.
type Role string

const (
	RoleTitle      Role = "title"
	RoleRecipient  Role = "recipient"
	RoleHeading1   Role = "heading1"
	RoleHeading2   Role = "heading2"
	RoleHeading3   Role = "heading3"
	RoleHeading4   Role = "heading4"
	RoleBody       Role = "body"
	RoleSignature  Role = "signature"
	RoleDate       Role = "date"
	RoleAttachment Role = "attachment"
	RoleClosing    Role = "closing"
	RoleEmpty      Role = "empty"
)

// Roles lists every role a style preset can target, in a stable order.
// RoleEmpty is excluded: empty paragraphs are never styled.
func Roles() []Role {
	return []Role{
		RoleTitle, RoleRecipient,
		RoleHeading1, RoleHeading2, RoleHeading3, RoleHeading4,
		RoleBody, RoleSignature, RoleDate, RoleAttachment, RoleClosing,
	}
}

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	if r == RoleEmpty {
		return true
	}
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
