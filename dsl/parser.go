package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)(?:mm|cm|in|pt|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames = invertSymbols(sheetLexer.Symbols())
	tokNewline = mustTokenType("Newline")
	tokLBrace  = mustTokenType("LBrace")
	tokRBrace  = mustTokenType("RBrace")
	tokSymbol  = mustTokenType("Symbol")
	tokString  = mustTokenType("String")

	drawingParser = participle.MustBuild[Drawing](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Drawing 是图纸描述文件的根节点。
type Drawing struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'drawing' @Ident"`
	Revision string         `parser:"@Ident?"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 为顶层段落：meta、settings 或 sheet。
type Section struct {
	Meta     *MetaSection     `parser:"  @@"`
	Settings *SettingsSection `parser:"| @@"`
	Sheet    *SheetSection    `parser:"| @@"`
}

// Kind 返回段落类型名称。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Settings != nil:
		return "settings"
	case s.Sheet != nil:
		return "sheet"
	default:
		return "unknown"
	}
}

// MetaSection 保存标题、作者等赋值。
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// SettingsSection 覆盖断开参数（style/gap/symbols/range）。
type SettingsSection struct {
	Block *Block `parser:"'settings' @@"`
}

// SheetSection 描述一张图纸：尺寸、方向以及其中的视图。
type SheetSection struct {
	Spec  SheetSpec `parser:"'sheet' @@"`
	Block *Block    `parser:"@@"`
}

// SheetSpec 记录图纸头部的尺寸与附加参数（如 landscape）。
type SheetSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block 是花括号包围的语句列表。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 为赋值或命令。
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command 描述 view 等带参数和子块的指令。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Value 为属性值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Expr   *Expression    `parser:"| @@"`
}

// ArrayValue 捕获 `[ ... ]`，如视图中心坐标。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Expression 保留原始 token，例如 `-5mm` 或 `front`。
type Expression struct {
	Parts []*Lexeme
}

// Parse 实现 participle.Parseable：读到行尾、分号、逗号或未配对的 ']' 为止。
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var parts []*Lexeme
	depth := 0
	for {
		tok := lex.Peek()
		if endOfExpression(tok, depth) {
			break
		}
		lexeme, err := consumeLexeme(lex)
		if err != nil {
			return err
		}
		switch lexeme.Raw {
		case "(", "[":
			depth++
		case ")", "]":
			if depth > 0 {
				depth--
			}
		}
		parts = append(parts, lexeme)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	e.Parts = parts
	return nil
}

// Lexeme 是单个词法 token，用作命令参数与表达式片段。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse 实现 participle.Parseable，使 Lexeme 可以作为语法原子。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endOfArgs(lex.Peek()) {
		return participle.NextMatch
	}
	lexeme, err := consumeLexeme(lex)
	if err != nil {
		return err
	}
	*l = *lexeme
	return nil
}

// StringLiteral 在捕获时去掉引号。
type StringLiteral string

// Capture 实现 participle.Capture。
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量缺少内容")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析图纸描述。
func Parse(r io.Reader) (*Drawing, error) {
	return drawingParser.Parse("", r)
}

// ParseString 解析字符串形式的图纸描述。
func ParseString(input string) (*Drawing, error) {
	return drawingParser.ParseString("", input)
}

func consumeLexeme(lex *lexer.PeekingLexer) (*Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return nil, participle.NextMatch
	}
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == tokString {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return nil, err
		}
		val = unquoted
	}
	return &Lexeme{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}, nil
}

func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case tokNewline, tokRBrace, tokLBrace:
		return true
	case tokSymbol:
		return tok.Value == ";"
	}
	return false
}

func endOfExpression(tok *lexer.Token, depth int) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case tokNewline, tokRBrace, tokLBrace:
		return depth == 0
	case tokSymbol:
		switch tok.Value {
		case ";", ",":
			return depth == 0
		case "]":
			return depth == 0
		}
	}
	return false
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := sheetLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s 未定义", name))
	}
	return tt
}
