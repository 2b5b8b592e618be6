package query

import (
	"os/user"
	"strconv"
	"strings"
	"time"
)

// Parser builds an expression tree from a query string. Values are typed
// against their field as they are parsed, so a successfully parsed tree
// needs no further validation before evaluation.
type Parser struct {
	lexer     *Lexer
	now       time.Time
	curToken  Token
	peekToken Token
}

// NewParser creates a parser for the given input. The "now" anchor for
// time values is captured here, once, so every time predicate in the
// expression resolves against the same instant.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		now:   time.Now(),
	}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete query expression.
func Parse(input string) (Expr, error) {
	return NewParser(input).Parse()
}

// Parse parses the input and requires it to be fully consumed.
func (p *Parser) Parse() (Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != EOF {
		return nil, NewParseErrorf(p.curToken.Position, "unexpected %q after expression", p.curToken.Literal)
	}
	return expr, nil
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == IDENT && p.curToken.Literal == "or" {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curToken.Type == IDENT && p.curToken.Literal == "and" {
		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (Expr, error) {
	switch p.curToken.Type {
	case LPAREN:
		p.nextToken()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != RPAREN {
			return nil, NewParseError("missing closing parenthesis", p.curToken.Position)
		}
		p.nextToken()
		return expr, nil
	case IDENT:
		if p.curToken.Literal == "not" {
			p.nextToken()
			inner, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return &NotExpr{Expr: inner}, nil
		}
		return p.parsePredicate()
	case EOF:
		return nil, NewParseError("unexpected end of expression", p.curToken.Position)
	case RPAREN:
		return nil, NewParseError("unexpected closing parenthesis", p.curToken.Position)
	case ILLEGAL:
		return nil, p.illegalTokenError()
	default:
		return nil, NewParseErrorf(p.curToken.Position, "unexpected %q", p.curToken.Literal)
	}
}

func (p *Parser) parsePredicate() (Expr, error) {
	fieldToken := p.curToken
	field, ok := LookupField(fieldToken.Literal)
	if !ok {
		return nil, NewParseErrorf(fieldToken.Position, "unknown field %q", fieldToken.Literal)
	}
	p.nextToken()

	if !p.curToken.IsComparator() {
		return nil, NewParseErrorf(p.curToken.Position, "expected comparator after field %q", fieldToken.Literal)
	}
	op := operatorByToken[p.curToken.Type]
	if field.EqualityOnly() && op != OpEq && op != OpNeq {
		return nil, NewParseErrorf(p.curToken.Position, "field %q supports only = and != comparators", fieldToken.Literal)
	}
	p.nextToken()

	value, err := p.parseValue(field)
	if err != nil {
		return nil, err
	}
	return &Predicate{Field: field, Op: op, Value: value}, nil
}

func (p *Parser) parseValue(field Field) (Value, error) {
	if p.curToken.Type == ILLEGAL {
		return nil, p.illegalTokenError()
	}

	switch field {
	case FieldName, FieldExtension, FieldPath, FieldContains:
		return p.parsePatternValue()
	case FieldSize:
		return p.parseSizeValue()
	case FieldDepth:
		return p.parseNumberValue("depth")
	case FieldUser:
		return p.parseOwnerValue("user", lookupUserID)
	case FieldGroup:
		return p.parseOwnerValue("group", lookupGroupID)
	case FieldPermissions:
		return p.parsePermValue()
	case FieldAccessTime, FieldModTime:
		return p.parseTimeValue()
	case FieldType:
		return p.parseTypeValue()
	default:
		return nil, NewParseErrorf(p.curToken.Position, "unsupported field %q", field)
	}
}

func (p *Parser) parsePatternValue() (Value, error) {
	token := p.curToken
	switch token.Type {
	case STRING:
		p.nextToken()
		switch token.Modifier {
		case "":
			return &LiteralValue{Text: token.Literal}, nil
		case "i":
			return &LiteralValue{Text: token.Literal, Fold: true}, nil
		case "r", "ri":
			v, err := NewRegexValue(token.Literal, token.Modifier == "ri")
			if err != nil {
				return nil, NewParseErrorf(token.Position, "invalid regular expression %q: %v", token.Literal, err)
			}
			return v, nil
		default:
			return nil, NewParseErrorf(token.Position, "unknown string modifier %q", token.Modifier)
		}
	case VALUE:
		p.nextToken()
		if strings.ContainsAny(token.Literal, "*?") {
			v, err := NewGlobValue(token.Literal)
			if err != nil {
				return nil, NewParseErrorf(token.Position, "invalid glob %q: %v", token.Literal, err)
			}
			return v, nil
		}
		return &LiteralValue{Text: token.Literal}, nil
	default:
		return nil, NewParseErrorf(token.Position, "expected a value, got %q", token.Literal)
	}
}

func (p *Parser) parseSizeValue() (Value, error) {
	token := p.curToken
	if token.Type != VALUE {
		return nil, NewParseErrorf(token.Position, "expected a size, got %q", token.Literal)
	}
	p.nextToken()

	digits, suffix := splitNumber(token.Literal)
	if digits == "" {
		return nil, NewParseErrorf(token.Position, "invalid size value %q", token.Literal)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, NewParseErrorf(token.Position, "invalid size value %q", token.Literal)
	}

	if suffix == "" && p.curToken.Type == IDENT {
		if _, ok := LookupSizeUnit(p.curToken.Literal); ok {
			suffix = p.curToken.Literal
			p.nextToken()
		}
	}
	if suffix == "" {
		return &NumberValue{N: n}, nil
	}
	mult, ok := LookupSizeUnit(suffix)
	if !ok {
		return nil, NewParseErrorf(token.Position, "unknown size unit %q", suffix)
	}
	return &NumberValue{N: n * mult}, nil
}

func (p *Parser) parseNumberValue(what string) (Value, error) {
	token := p.curToken
	if token.Type != VALUE {
		return nil, NewParseErrorf(token.Position, "expected a %s, got %q", what, token.Literal)
	}
	p.nextToken()

	digits, suffix := splitNumber(token.Literal)
	if digits == "" || suffix != "" {
		return nil, NewParseErrorf(token.Position, "invalid %s value %q", what, token.Literal)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, NewParseErrorf(token.Position, "invalid %s value %q", what, token.Literal)
	}
	return &NumberValue{N: n}, nil
}

func (p *Parser) parseOwnerValue(what string, resolve func(string) (int64, error)) (Value, error) {
	token := p.curToken
	if token.Type != VALUE {
		return nil, NewParseErrorf(token.Position, "expected a %s, got %q", what, token.Literal)
	}
	p.nextToken()

	digits, suffix := splitNumber(token.Literal)
	if digits != "" && suffix == "" {
		n, err := strconv.ParseInt(digits, 10, 64)
		if err == nil {
			return &NumberValue{N: n}, nil
		}
	}
	id, err := resolve(token.Literal)
	if err != nil {
		return nil, NewParseErrorf(token.Position, "unknown %s %q", what, token.Literal)
	}
	return &NumberValue{N: id}, nil
}

func (p *Parser) parsePermValue() (Value, error) {
	token := p.curToken
	if token.Type != VALUE {
		return nil, NewParseErrorf(token.Position, "expected a permission value, got %q", token.Literal)
	}
	p.nextToken()

	bits, err := strconv.ParseUint(token.Literal, 8, 32)
	if err != nil {
		return nil, NewParseErrorf(token.Position, "invalid permission value %q", token.Literal)
	}
	return &PermValue{Bits: uint32(bits)}, nil
}

// parseTimeValue accepts "now", "now-1d", "now+2h" as a single token, or
// the spaced form "now - 1d" where the sign and duration are separate
// tokens. Durations themselves may split as "1 h".
func (p *Parser) parseTimeValue() (Value, error) {
	token := p.curToken
	if token.Type != VALUE && token.Type != IDENT {
		return nil, NewParseErrorf(token.Position, "expected a time value, got %q", token.Literal)
	}
	if !strings.HasPrefix(token.Literal, "now") {
		return nil, NewParseErrorf(token.Position, "time values must be anchored to now, got %q", token.Literal)
	}
	p.nextToken()

	rest := token.Literal[len("now"):]
	if rest != "" {
		offset, err := parseOffset(rest)
		if err != nil {
			return nil, NewParseErrorf(token.Position, "invalid time value %q: %v", token.Literal, err)
		}
		return &TimeValue{Instant: p.now.Add(offset), Offset: offset}, nil
	}

	if p.curToken.Type == PLUS || p.curToken.Type == MINUS {
		negative := p.curToken.Type == MINUS
		p.nextToken()
		offset, err := p.parseDurationTokens()
		if err != nil {
			return nil, err
		}
		if negative {
			offset = -offset
		}
		return &TimeValue{Instant: p.now.Add(offset), Offset: offset}, nil
	}

	return &TimeValue{Instant: p.now}, nil
}

func (p *Parser) parseDurationTokens() (time.Duration, error) {
	token := p.curToken
	if token.Type != VALUE && token.Type != IDENT {
		return 0, NewParseErrorf(token.Position, "expected a duration, got %q", token.Literal)
	}
	p.nextToken()

	digits, suffix := splitNumber(token.Literal)
	if digits == "" {
		return 0, NewParseErrorf(token.Position, "invalid duration %q", token.Literal)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, NewParseErrorf(token.Position, "invalid duration %q", token.Literal)
	}

	if suffix == "" {
		if p.curToken.Type != IDENT {
			return 0, NewParseError("missing time unit", p.curToken.Position)
		}
		suffix = p.curToken.Literal
		p.nextToken()
	}
	unit, ok := LookupTimeUnit(suffix)
	if !ok {
		return 0, NewParseErrorf(token.Position, "unknown time unit %q", suffix)
	}
	return time.Duration(n) * unit, nil
}

func (p *Parser) parseTypeValue() (Value, error) {
	token := p.curToken
	if token.Type != VALUE && token.Type != STRING {
		return nil, NewParseErrorf(token.Position, "expected a type label, got %q", token.Literal)
	}
	p.nextToken()

	label, ok := LookupClassLabel(token.Literal)
	if !ok {
		return nil, NewParseErrorf(token.Position,
			"unknown type %q, expected one of text, app, archive, audio, book, doc, font, img, vid", token.Literal)
	}
	return &TypeValue{Label: label}, nil
}

func (p *Parser) illegalTokenError() error {
	literal := p.curToken.Literal
	for _, prefix := range []string{"'", "\"", "i'", "r'", "i\"", "r\""} {
		if strings.HasPrefix(literal, prefix) {
			return NewParseErrorf(p.curToken.Position, "unterminated string %s", literal)
		}
	}
	return NewParseErrorf(p.curToken.Position, "unexpected character %q", literal)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// parseOffset parses a compact signed duration like "-1d" or "+2h".
func parseOffset(s string) (time.Duration, error) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, strconv.ErrSyntax
	}
	digits, suffix := splitNumber(s[1:])
	if digits == "" || suffix == "" {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, err
	}
	unit, ok := LookupTimeUnit(suffix)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	d := time.Duration(n) * unit
	if s[0] == '-' {
		d = -d
	}
	return d, nil
}

// splitNumber splits a token like "1024Kb" into its digits and suffix.
// Underscores between digits are allowed as separators and stripped.
func splitNumber(s string) (digits, suffix string) {
	var b strings.Builder
	i := 0
	for ; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			b.WriteByte(ch)
			continue
		}
		if ch == '_' && b.Len() > 0 {
			continue
		}
		break
	}
	return b.String(), s[i:]
}

func lookupUserID(name string) (int64, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(u.Uid, 10, 64)
}

func lookupGroupID(name string) (int64, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(g.Gid, 10, 64)
}
