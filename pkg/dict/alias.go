package dict

import (
	"fmt"
	"strings"
)

// Alias is an alternate element identifier. When Object is set the alias is
// only valid inside that enclosing object.
type Alias struct {
	Object     string
	Identifier string
}

// ParseAlias splits the dictionary form OBJECT.ELEMENT into its two parts.
// A value without a dot is an unscoped alias.
func ParseAlias(s string) (Alias, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Alias{}, fmt.Errorf("empty alias")
	}
	object, element, scoped := strings.Cut(s, ".")
	if !scoped {
		return Alias{Identifier: s}, nil
	}
	if object == "" || element == "" || strings.Contains(element, ".") {
		return Alias{}, fmt.Errorf("malformed alias %q: want OBJECT.ELEMENT", s)
	}
	return Alias{Object: object, Identifier: element}, nil
}

// Scoped reports whether the alias is tied to an enclosing object.
func (a Alias) Scoped() bool { return a.Object != "" }

func (a Alias) String() string {
	if a.Object == "" {
		return a.Identifier
	}
	return a.Object + "." + a.Identifier
}
