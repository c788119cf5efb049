package odl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/leapstack-labs/vtool/pkg/label"
)

// Error is a syntax error at a position in a label.
type Error struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// labelEnd returns the offset just past the first line of src consisting of
// END alone, or -1. Lines inside quoted text or comments do not count, and a
// '"' inside a 'symbol' does not open quoted text.
func labelEnd(src string) int {
	var quoted, comment bool
	for start := 0; start < len(src); {
		end := strings.IndexByte(src[start:], '\n')
		next := len(src)
		if end >= 0 {
			end += start
			next = end + 1
		} else {
			end = len(src)
		}
		line := src[start:end]
		if !quoted && !comment && strings.EqualFold(strings.TrimSpace(line), "END") {
			return end
		}
		symbol := false // symbols never span lines
		for i := 0; i < len(line); i++ {
			switch {
			case comment:
				if strings.HasPrefix(line[i:], "*/") {
					comment = false
					i++
				}
			case symbol:
				symbol = line[i] != '\''
			case line[i] == '"':
				quoted = !quoted
			case quoted:
			case line[i] == '\'':
				symbol = true
			case strings.HasPrefix(line[i:], "/*"):
				comment = true
				i++
			}
		}
		start = next
	}
	return -1
}

// ParseFile reads and parses the label at path.
func ParseFile(path string) (*label.Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label: %w", err)
	}
	return Parse(path, string(data))
}

// Parse parses label text. filename is recorded in every statement position.
// The label type is inferred from the parsed content.
func Parse(filename, src string) (*label.Label, error) {
	if end := labelEnd(src); end >= 0 {
		src = src[:end]
	}

	ast, err := parser.ParseString(filename, src)
	if err != nil {
		return nil, toError(filename, err)
	}

	b := builder{file: filename}
	stmts, err := b.statements(ast.Statements)
	if err != nil {
		return nil, err
	}
	comments, err := collectComments(filename, src)
	if err != nil {
		return nil, err
	}

	l := &label.Label{
		Filename:   filename,
		Statements: stmts,
		Comments:   comments,
	}
	l.Type = label.InferType(l)
	return l, nil
}

func toError(filename string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return &Error{File: filename, Line: pos.Line, Column: pos.Column, Msg: perr.Message()}
	}
	return &Error{File: filename, Msg: err.Error()}
}

// collectComments lexes src a second time to recover the comments the
// parser elides.
func collectComments(filename, src string) ([]*label.CommentStatement, error) {
	lex, err := odlLexer.LexString(filename, src)
	if err != nil {
		return nil, toError(filename, err)
	}
	commentType := odlLexer.Symbols()["Comment"]
	var out []*label.CommentStatement
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, toError(filename, err)
		}
		if tok.EOF() {
			return out, nil
		}
		if tok.Type != commentType {
			continue
		}
		text := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(tok.Value, "/*"), "*/"))
		out = append(out, &label.CommentStatement{
			Position: label.Position{File: filename, Line: tok.Pos.Line},
			Text:     text,
		})
	}
}

type builder struct {
	file string
}

func (b builder) pos(p lexer.Position) label.Position {
	return label.Position{File: b.file, Line: p.Line}
}

func (b builder) statements(in []*odlStatement) ([]label.Statement, error) {
	out := make([]label.Statement, 0, len(in))
	for _, s := range in {
		switch {
		case s.Block != nil:
			obj, err := b.block(s.Block)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		case s.Pointer != nil:
			out = append(out, label.NewPointerStatement(b.pos(s.Pos), s.Pointer.Name, b.value(s.Pointer.Value)))
		case s.Attribute != nil:
			attr := label.NewAttribute(b.pos(s.Pos), s.Attribute.Names[len(s.Attribute.Names)-1], b.value(s.Attribute.Value))
			if len(s.Attribute.Names) == 2 {
				attr.Namespace = s.Attribute.Names[0]
			}
			out = append(out, attr)
		}
	}
	return out, nil
}

func (b builder) block(in *odlBlock) (*label.ObjectStatement, error) {
	group := strings.EqualFold(in.Kind, "GROUP")
	wantEnd := "END_OBJECT"
	if group {
		wantEnd = "END_GROUP"
	}
	if !strings.EqualFold(in.End.Kind, wantEnd) {
		return nil, &Error{File: b.file, Line: in.End.Pos.Line, Column: in.End.Pos.Column,
			Msg: fmt.Sprintf("%s %s closed by %s", strings.ToUpper(in.Kind), in.Name, strings.ToUpper(in.End.Kind))}
	}
	if in.End.Name != "" && in.End.Name != in.Name {
		return nil, &Error{File: b.file, Line: in.End.Pos.Line, Column: in.End.Pos.Column,
			Msg: fmt.Sprintf("%s = %s does not match %s = %s", wantEnd, in.End.Name, strings.ToUpper(in.Kind), in.Name)}
	}

	children, err := b.statements(in.Body)
	if err != nil {
		return nil, err
	}
	obj := label.NewObject(b.pos(in.Pos), in.Name, children...)
	obj.Group = group
	return obj, nil
}

func (b builder) value(in *odlValue) label.Value {
	switch {
	case in == nil:
		return nil
	case in.Set != nil:
		return label.NewSet(b.values(in.Set.Members)...)
	case in.Sequence != nil:
		return label.NewSequence(b.values(in.Sequence.Members)...)
	default:
		return b.scalar(in.Scalar)
	}
}

func (b builder) values(in []*odlValue) []label.Value {
	out := make([]label.Value, 0, len(in))
	for _, v := range in {
		out = append(out, b.value(v))
	}
	return out
}

func (b builder) scalar(in *odlScalar) label.Value {
	switch {
	case in == nil:
		return nil
	case in.Text != nil:
		return label.NewText(unquote(*in.Text))
	case in.Symbol != nil:
		return label.NewSymbol(unquote(*in.Symbol))
	case in.DateTime != nil:
		return label.NewScalar(*in.DateTime)
	case in.Number != nil:
		units := strings.TrimSuffix(strings.TrimPrefix(in.Number.Units, "<"), ">")
		return label.NewNumeric(in.Number.Value, units)
	default:
		return label.NewScalar(*in.Ident)
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
