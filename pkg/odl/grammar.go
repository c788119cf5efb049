package odl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var odlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Symbol", Pattern: `'[^'\n]*'`},
	{Name: "Units", Pattern: `<[^>\n]*>`},
	{Name: "DateTime", Pattern: `\d{4}-(?:\d{2}-\d{2}|\d{3})(?:T\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?Z?)?|\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?Z?`},
	{Name: "Radix", Pattern: `[+-]?\d{1,2}#[0-9A-Za-z]+#`},
	{Name: "Number", Pattern: `[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`},
	{Name: "Keyword", Pattern: `(?i:END_OBJECT|END_GROUP|OBJECT|GROUP|END)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*(?:/[A-Za-z0-9_]+)*`},
	{Name: "Punct", Pattern: `[=(){},^:]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parser = participle.MustBuild[odlFile](
	participle.Lexer(odlLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Keyword"),
)

type odlFile struct {
	Statements []*odlStatement `parser:"@@*"`
	End        bool            `parser:"@'END'?"`
}

type odlStatement struct {
	Pos       lexer.Position
	Block     *odlBlock     `parser:"  @@"`
	Pointer   *odlPointer   `parser:"| @@"`
	Attribute *odlAttribute `parser:"| @@"`
}

type odlBlock struct {
	Pos  lexer.Position
	Kind string          `parser:"@('OBJECT' | 'GROUP') '='"`
	Name string          `parser:"@Ident"`
	Body []*odlStatement `parser:"@@*"`
	End  *odlBlockEnd    `parser:"@@"`
}

type odlBlockEnd struct {
	Pos  lexer.Position
	Kind string `parser:"@('END_OBJECT' | 'END_GROUP')"`
	Name string `parser:"( '=' @Ident )?"`
}

type odlPointer struct {
	Name  string    `parser:"'^' @Ident '='"`
	Value *odlValue `parser:"@@"`
}

type odlAttribute struct {
	Names []string  `parser:"@Ident ( ':' @Ident )? '='"`
	Value *odlValue `parser:"@@"`
}

type odlValue struct {
	Set      *odlSet      `parser:"  @@"`
	Sequence *odlSequence `parser:"| @@"`
	Scalar   *odlScalar   `parser:"| @@"`
}

type odlSet struct {
	Open    string      `parser:"@'{'"`
	Members []*odlValue `parser:"( @@ ( ',' @@ )* )? '}'"`
}

type odlSequence struct {
	Open    string      `parser:"@'('"`
	Members []*odlValue `parser:"( @@ ( ',' @@ )* )? ')'"`
}

type odlScalar struct {
	Text     *string    `parser:"  @String"`
	Symbol   *string    `parser:"| @Symbol"`
	DateTime *string    `parser:"| @DateTime"`
	Number   *odlNumber `parser:"| @@"`
	Ident    *string    `parser:"| @Ident"`
}

type odlNumber struct {
	Value string `parser:"@( Radix | Number )"`
	Units string `parser:"@Units?"`
}
