// Package loader reads data dictionary files into a dict.Dictionary.
//
// A dictionary file is a YAML or TOML document with two lists, elements and
// objects, mirroring the fields of dict.ElementDefinition and
// dict.ObjectDefinition. Files ending in .toml are read as TOML.
// Several files may be loaded into one dictionary; a definition in a later
// file replaces an earlier one with the same identifier.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/vtool/pkg/dict"
)

// dictionaryDoc is the on-disk document.
type dictionaryDoc struct {
	Elements []elementDoc `yaml:"elements" toml:"elements"`
	Objects  []objectDoc  `yaml:"objects" toml:"objects"`
}

type elementDoc struct {
	Identifier string   `yaml:"identifier" toml:"identifier"`
	Type       string   `yaml:"type" toml:"type"`
	MinLength  int      `yaml:"min_length" toml:"min_length"`
	MaxLength  int      `yaml:"max_length" toml:"max_length"`
	Minimum    *string  `yaml:"minimum" toml:"minimum"`
	Maximum    *string  `yaml:"maximum" toml:"maximum"`
	UnitID     string   `yaml:"unit_id" toml:"unit_id"`
	Units      []string `yaml:"units" toml:"units"`
	ValueType  string   `yaml:"value_type" toml:"value_type"`
	Values     []string `yaml:"values" toml:"values"`
	Aliases    []string `yaml:"aliases" toml:"aliases"` // OBJECT.ELEMENT or ELEMENT
}

type objectDoc struct {
	Identifier       string   `yaml:"identifier" toml:"identifier"`
	RequiredElements []string `yaml:"required_elements" toml:"required_elements"`
	OptionalElements []string `yaml:"optional_elements" toml:"optional_elements"`
	RequiredObjects  []string `yaml:"required_objects" toml:"required_objects"`
	OptionalObjects  []string `yaml:"optional_objects" toml:"optional_objects"`
	Aliases          []string `yaml:"aliases" toml:"aliases"`
}

var knownFields = map[string]bool{
	"elements": true,
	"objects":  true,
}

// Loader merges dictionary files into one Dictionary.
type Loader struct {
	logger *slog.Logger
}

// New creates a loader. A nil logger discards.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger}
}

// Load reads every file in order into a new dictionary.
func (l *Loader) Load(paths ...string) (*dict.Dictionary, error) {
	if len(paths) == 0 {
		return nil, errors.New("no dictionary files given")
	}
	d := dict.New()
	for _, path := range paths {
		if err := l.LoadFile(d, path); err != nil {
			return nil, err
		}
	}
	l.logger.Debug("dictionary loaded",
		slog.Int("files", len(paths)),
		slog.Int("elements", len(d.ElementIDs())),
		slog.Int("objects", len(d.ObjectIDs())))
	return d, nil
}

// LoadFile reads one file into d.
func (l *Loader) LoadFile(d *dict.Dictionary, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dictionary: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := l.Decode(d, path, f); err != nil {
		return err
	}
	d.AddSource(path)
	return nil
}

// Decode reads one document from r into d. name is used in errors and
// selects the format: TOML for a .toml extension, YAML otherwise.
func (l *Loader) Decode(d *dict.Dictionary, name string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read dictionary %s: %w", name, err)
	}

	var doc *dictionaryDoc
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		doc, err = decodeTOML(name, content)
	} else {
		doc, err = decodeYAML(name, content)
	}
	if err != nil {
		return err
	}
	return l.add(d, name, doc)
}

func decodeYAML(name string, content []byte) (*dictionaryDoc, error) {
	var rawMap map[string]any
	if err := yaml.Unmarshal(content, &rawMap); err != nil {
		return nil, &ParseError{File: name, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if err := checkFields(name, rawMap); err != nil {
		return nil, err
	}

	var doc dictionaryDoc
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{File: name, Message: fmt.Sprintf("failed to parse dictionary: %v", err)}
	}
	return &doc, nil
}

func decodeTOML(name string, content []byte) (*dictionaryDoc, error) {
	var rawMap map[string]any
	if err := toml.Unmarshal(content, &rawMap); err != nil {
		return nil, &ParseError{File: name, Message: fmt.Sprintf("invalid TOML: %v", err)}
	}
	if err := checkFields(name, rawMap); err != nil {
		return nil, err
	}

	var doc dictionaryDoc
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{File: name, Message: fmt.Sprintf("failed to parse dictionary: %v", err)}
	}
	return &doc, nil
}

func checkFields(name string, rawMap map[string]any) error {
	for field := range rawMap {
		if !knownFields[field] {
			return &UnknownFieldError{File: name, Field: field}
		}
	}
	return nil
}

func (l *Loader) add(d *dict.Dictionary, name string, doc *dictionaryDoc) error {
	for i, e := range doc.Elements {
		def, err := e.definition()
		if err != nil {
			return &ParseError{File: name, Message: fmt.Sprintf("elements[%d]: %v", i, err)}
		}
		l.replacing(d.HasElement(def.Identifier), name, "element", def.Identifier)
		if err := d.AddElement(def); err != nil {
			return &ParseError{File: name, Message: fmt.Sprintf("elements[%d]: %v", i, err)}
		}
	}
	for i, o := range doc.Objects {
		def := o.definition()
		l.replacing(d.HasObject(def.Identifier), name, "object", def.Identifier)
		if err := d.AddObject(def); err != nil {
			return &ParseError{File: name, Message: fmt.Sprintf("objects[%d]: %v", i, err)}
		}
	}
	return nil
}

func (l *Loader) replacing(exists bool, file, kind, id string) {
	if exists {
		l.logger.Debug("definition overridden", slog.String("file", file),
			slog.String("kind", kind), slog.String("identifier", id))
	}
}

func (e elementDoc) definition() (*dict.ElementDefinition, error) {
	if e.Identifier == "" {
		return nil, errors.New("element has no identifier")
	}
	if e.Type == "" {
		return nil, fmt.Errorf("element %s has no type", e.Identifier)
	}
	def := &dict.ElementDefinition{
		Identifier: e.Identifier,
		DataType:   e.Type,
		MinLength:  e.MinLength,
		MaxLength:  e.MaxLength,
		Minimum:    e.Minimum,
		Maximum:    e.Maximum,
		UnitID:     e.UnitID,
		Units:      e.Units,
		ValueType:  e.ValueType,
		Values:     e.Values,
	}
	for _, s := range e.Aliases {
		alias, err := dict.ParseAlias(s)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", e.Identifier, err)
		}
		def.Aliases = append(def.Aliases, alias)
	}
	return def, nil
}

func (o objectDoc) definition() *dict.ObjectDefinition {
	return &dict.ObjectDefinition{
		Identifier:       o.Identifier,
		RequiredElements: o.RequiredElements,
		OptionalElements: o.OptionalElements,
		RequiredObjects:  o.RequiredObjects,
		OptionalObjects:  o.OptionalObjects,
		Aliases:          o.Aliases,
	}
}

// ParseError represents a dictionary file that could not be decoded.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// UnknownFieldError represents an unknown top-level key in a dictionary file.
type UnknownFieldError struct {
	File  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q in dictionary, expected elements or objects", e.Field)
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}
