package dict

import (
	"fmt"
	"sort"
	"strings"
)

// Dictionary maps identifiers and aliases to definitions.
type Dictionary struct {
	elements map[string]*ElementDefinition
	objects  map[string]*ObjectDefinition

	scopedAliases   map[Alias]string  // (object, alias) -> canonical element
	elementAliases  map[string]string // unscoped alias -> canonical element
	objectAliases   map[string]string // alias -> canonical object
	sourceFileNames []string
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		elements:       make(map[string]*ElementDefinition),
		objects:        make(map[string]*ObjectDefinition),
		scopedAliases:  make(map[Alias]string),
		elementAliases: make(map[string]string),
		objectAliases:  make(map[string]string),
	}
}

// AddElement adds or replaces an element definition and indexes its aliases.
func (d *Dictionary) AddElement(def *ElementDefinition) error {
	if def == nil || def.Identifier == "" {
		return fmt.Errorf("element definition has no identifier")
	}
	if old, ok := d.elements[def.Identifier]; ok {
		d.dropElementAliases(old)
	}
	d.elements[def.Identifier] = def
	for _, a := range def.Aliases {
		if a.Scoped() {
			d.scopedAliases[a] = def.Identifier
		} else {
			d.elementAliases[a.Identifier] = def.Identifier
		}
	}
	return nil
}

// dropElementAliases removes the alias entries def owns. Entries another
// element has since claimed are left alone.
func (d *Dictionary) dropElementAliases(def *ElementDefinition) {
	for _, a := range def.Aliases {
		if a.Scoped() {
			if d.scopedAliases[a] == def.Identifier {
				delete(d.scopedAliases, a)
			}
		} else if d.elementAliases[a.Identifier] == def.Identifier {
			delete(d.elementAliases, a.Identifier)
		}
	}
}

// AddObject adds or replaces an object definition and indexes its aliases.
func (d *Dictionary) AddObject(def *ObjectDefinition) error {
	if def == nil || def.Identifier == "" {
		return fmt.Errorf("object definition has no identifier")
	}
	if old, ok := d.objects[def.Identifier]; ok {
		for _, a := range old.Aliases {
			if d.objectAliases[a] == old.Identifier {
				delete(d.objectAliases, a)
			}
		}
	}
	d.objects[def.Identifier] = def
	for _, a := range def.Aliases {
		d.objectAliases[a] = def.Identifier
	}
	return nil
}

// AddSource records the name of a file the dictionary was loaded from.
func (d *Dictionary) AddSource(name string) {
	d.sourceFileNames = append(d.sourceFileNames, name)
}

// Sources returns the files the dictionary was loaded from, in load order.
func (d *Dictionary) Sources() []string {
	return append([]string(nil), d.sourceFileNames...)
}

// Element looks up an element by canonical identifier, then by unscoped alias.
func (d *Dictionary) Element(id string) (*ElementDefinition, bool) {
	return d.ElementInContext("", id)
}

// ElementInContext looks up an element as it appears inside the object
// identified by object: canonical identifier first, then an alias scoped to
// that object, then an unscoped alias. An empty object skips scoped aliases.
func (d *Dictionary) ElementInContext(object, id string) (*ElementDefinition, bool) {
	if def, ok := d.elements[id]; ok {
		return def, true
	}
	if object != "" {
		if canonical, ok := d.scopedAliases[Alias{Object: object, Identifier: id}]; ok {
			return d.elements[canonical], true
		}
	}
	if canonical, ok := d.elementAliases[id]; ok {
		return d.elements[canonical], true
	}
	return nil, false
}

// Object looks up an object by canonical identifier, then by alias.
func (d *Dictionary) Object(id string) (*ObjectDefinition, bool) {
	if def, ok := d.objects[id]; ok {
		return def, true
	}
	if canonical, ok := d.objectAliases[id]; ok {
		return d.objects[canonical], true
	}
	return nil, false
}

// ObjectClass resolves the definition that governs an object statement name:
// the canonical identifier or an alias first, then the generic class whose
// identifier is the longest "_"-separated suffix of id (INDEX_TABLE -> TABLE).
func (d *Dictionary) ObjectClass(id string) (*ObjectDefinition, bool) {
	if def, ok := d.Object(id); ok {
		return def, true
	}
	return d.classOf(id)
}

// CanonicalObjectClass is ObjectClass without alias resolution.
func (d *Dictionary) CanonicalObjectClass(id string) (*ObjectDefinition, bool) {
	if def, ok := d.objects[id]; ok {
		return def, true
	}
	return d.classOf(id)
}

func (d *Dictionary) classOf(id string) (*ObjectDefinition, bool) {
	for rest := id; ; {
		_, after, found := strings.Cut(rest, "_")
		if !found || after == "" {
			return nil, false
		}
		if def, ok := d.objects[after]; ok {
			return def, true
		}
		rest = after
	}
}

// CanonicalElement looks up an element by canonical identifier only.
func (d *Dictionary) CanonicalElement(id string) (*ElementDefinition, bool) {
	def, ok := d.elements[id]
	return def, ok
}

// CanonicalObject looks up an object by canonical identifier only.
func (d *Dictionary) CanonicalObject(id string) (*ObjectDefinition, bool) {
	def, ok := d.objects[id]
	return def, ok
}

// HasElement reports whether id is a canonical element identifier.
func (d *Dictionary) HasElement(id string) bool {
	_, ok := d.elements[id]
	return ok
}

// HasObject reports whether id is a canonical object identifier.
func (d *Dictionary) HasObject(id string) bool {
	_, ok := d.objects[id]
	return ok
}

// ElementIDs returns all canonical element identifiers, sorted.
func (d *Dictionary) ElementIDs() []string {
	return sortedKeys(d.elements)
}

// ObjectIDs returns all canonical object identifiers, sorted.
func (d *Dictionary) ObjectIDs() []string {
	return sortedKeys(d.objects)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
