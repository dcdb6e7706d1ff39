// Package parse turns formula text into an evaluable expression tree.
//
// Tokenization is delegated to the efp Excel formula parser; this package
// walks its token stream with one method per precedence level and produces
// nodes implementing value.Expr. LAMBDA and LET are handled here as special
// forms so parameter lists and binding pairs are checked before evaluation
// ever runs.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/efp"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// Error describes why a formula failed to parse. it is a plain value so
// callers can fold it into an error cell instead of aborting.
type Error struct {
	Msg   string
	Token string // nearest offending token text, empty at end of input
}

func (e *Error) Error() string {
	if e.Token == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s near %q", e.Msg, e.Token)
}

// Parse compiles formula text into an expression tree. the text must start
// with "=". the returned error is always a *Error.
func Parse(text string) (value.Expr, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "=") {
		return nil, &Error{Msg: `formula must start with "="`}
	}
	body := trimmed[1:]
	if strings.TrimSpace(body) == "" {
		return nil, &Error{Msg: "formula has no expression"}
	}

	p := &parser{}
	ep := efp.ExcelParser()
	for _, t := range ep.Parse(body) {
		switch t.TType {
		case efp.TokenTypeWhitespace, efp.TokenTypeNoop:
			continue
		case efp.TokenTypeUnknown:
			return nil, &Error{Msg: "unrecognized token", Token: t.TValue}
		}
		p.toks = append(p.toks, t)
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		if p.isUnion() {
			return nil, p.errf("range union is not supported")
		}
		return nil, p.errf("unexpected token")
	}
	return expr, nil
}

// MustParse is Parse for formulas known valid at compile time.
func MustParse(text string) value.Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	toks []efp.Token
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() efp.Token {
	if p.done() {
		return efp.Token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() efp.Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) errf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Token: p.peek().TValue}
}

func (p *parser) matchInfix(ops ...string) (string, bool) {
	t := p.peek()
	if t.TType != efp.TokenTypeOperatorInfix {
		return "", false
	}
	for _, op := range ops {
		if t.TValue == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) isUnion() bool {
	t := p.peek()
	return t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeUnion
}

func (p *parser) isIntersection() bool {
	t := p.peek()
	return t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeIntersection
}

func (p *parser) isArgSep() bool {
	return p.peek().TType == efp.TokenTypeArgument
}

func (p *parser) isStop(ttype string) bool {
	t := p.peek()
	return t.TType == ttype && t.TSubType == efp.TokenSubTypeStop
}

func (p *parser) isStart(ttype string) bool {
	t := p.peek()
	return t.TType == ttype && t.TSubType == efp.TokenSubTypeStart
}

// expression parses at the lowest precedence level. the ladder runs
// comparison, concatenation, additive, multiplicative, unary minus, power,
// postfix, primary, per conventional spreadsheet precedence.
func (p *parser) expression() (value.Expr, error) {
	return p.comparison()
}

func (p *parser) comparison() (value.Expr, error) {
	left, err := p.concatenation()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchInfix("=", "<>", "<", "<=", ">", ">=")
		if !ok {
			return left, nil
		}
		right, err := p.concatenation()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) concatenation() (value.Expr, error) {
	left, err := p.addition()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchInfix("&")
		if !ok {
			return left, nil
		}
		right, err := p.addition()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) addition() (value.Expr, error) {
	left, err := p.multiplication()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchInfix("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.multiplication()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) multiplication() (value.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchInfix("*", "/")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) unary() (value.Expr, error) {
	if t := p.peek(); t.TType == efp.TokenTypeOperatorPrefix {
		p.pos++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.TValue == "+" {
			// unary plus returns its operand unchanged
			return x, nil
		}
		return &unaryNode{op: "-", x: x}, nil
	}
	return p.power()
}

// power is right-associative; the exponent re-enters at unary so 2^-3 and
// 2^3^2 both parse the way a spreadsheet reads them.
func (p *parser) power() (value.Expr, error) {
	left, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if _, ok := p.matchInfix("^"); !ok {
		return left, nil
	}
	right, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: "^", left: left, right: right}, nil
}

func (p *parser) postfix() (value.Expr, error) {
	e, err := p.intersection()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case t.TType == efp.TokenTypeOperatorPostfix && t.TValue == "%":
			p.pos++
			e = &unaryNode{op: "%", x: e}
		case p.isStart(efp.TokenTypeSubexpression):
			// a parenthesized group directly after an expression applies it
			p.pos++
			args, err := p.applyArgs()
			if err != nil {
				return nil, err
			}
			e = &applyNode{callee: e, args: args}
		default:
			return e, nil
		}
	}
}

func (p *parser) intersection() (value.Expr, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.isIntersection() {
		p.pos++
		right, err := p.primary()
		if err != nil {
			return nil, err
		}
		left = &intersectNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) primary() (value.Expr, error) {
	if p.done() {
		return nil, &Error{Msg: "unexpected end of formula"}
	}
	t := p.next()

	switch t.TType {
	case efp.TokenTypeOperand:
		return p.operand(t)

	case efp.TokenTypeFunction:
		if t.TSubType != efp.TokenSubTypeStart {
			p.pos--
			return nil, p.errf("unexpected token")
		}
		if t.TValue == "ARRAY" {
			// synthetic token the tokenizer emits for a brace literal
			return p.arrayLiteral()
		}
		switch strings.ToUpper(t.TValue) {
		case "LAMBDA":
			return p.lambda()
		case "LET":
			return p.let()
		}
		args, err := p.callArgs()
		if err != nil {
			return nil, err
		}
		return &callNode{name: t.TValue, args: args}, nil

	case efp.TokenTypeSubexpression:
		if t.TSubType != efp.TokenSubTypeStart {
			p.pos--
			return nil, p.errf("unexpected token")
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expectStop(efp.TokenTypeSubexpression); err != nil {
			return nil, err
		}
		return e, nil
	}

	p.pos--
	return nil, p.errf("unexpected token")
}

func (p *parser) operand(t efp.Token) (value.Expr, error) {
	switch t.TSubType {
	case efp.TokenSubTypeNumber:
		f, err := strconv.ParseFloat(t.TValue, 64)
		if err != nil {
			return nil, &Error{Msg: "invalid number", Token: t.TValue}
		}
		return &literalNode{v: value.Number(f)}, nil

	case efp.TokenSubTypeText:
		return &literalNode{v: value.Text(t.TValue)}, nil

	case efp.TokenSubTypeLogical:
		return &literalNode{v: value.Boolean(strings.EqualFold(t.TValue, "TRUE"))}, nil

	case efp.TokenSubTypeError:
		e, ok := value.ParseErrorToken(t.TValue)
		if !ok {
			return nil, &Error{Msg: "unrecognized error token", Token: t.TValue}
		}
		return &literalNode{v: e}, nil

	case efp.TokenSubTypeRange:
		return p.reference(t.TValue)
	}
	return nil, &Error{Msg: "unexpected operand", Token: t.TValue}
}

// reference classifies a range-flavored operand: a single cell, a
// rectangular range, or a defined name.
func (p *parser) reference(text string) (value.Expr, error) {
	if strings.ContainsAny(text, "!'[") {
		return nil, &Error{Msg: "sheet-qualified references are not supported", Token: text}
	}
	if strings.Contains(text, ":") {
		span, err := cell.ParseSpan(text)
		if err != nil {
			return nil, &Error{Msg: "invalid range reference", Token: text}
		}
		return &rangeNode{span: span}, nil
	}
	if cell.IsRef(text) {
		return &cellNode{ref: cell.MustParse(text)}, nil
	}
	if !validName(text) {
		return nil, &Error{Msg: "invalid name", Token: text}
	}
	return &nameNode{name: text}, nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch == '_':
		case ch >= '0' && ch <= '9', ch == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// callArgs parses to the closing parenthesis of a function call. omitted
// arguments, as in TEXTSPLIT(text, ",", , TRUE), come back as nil entries.
func (p *parser) callArgs() ([]value.Expr, error) {
	var args []value.Expr
	for {
		if p.done() {
			return nil, &Error{Msg: "unterminated function call"}
		}
		if p.isStop(efp.TokenTypeFunction) {
			p.pos++
			return args, nil
		}
		if p.isArgSep() {
			p.pos++
			args = append(args, nil)
			continue
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		switch {
		case p.isArgSep():
			p.pos++
			if p.isStop(efp.TokenTypeFunction) {
				p.pos++
				return append(args, nil), nil
			}
		case p.isStop(efp.TokenTypeFunction):
			p.pos++
			return args, nil
		default:
			return nil, p.errf("expected argument separator or closing parenthesis")
		}
	}
}

// applyArgs parses the argument list of a direct application like
// LAMBDA(x,y,x+y)(1,2). the commas arrive as union operators because the
// enclosing parentheses are a subexpression, not a function call.
func (p *parser) applyArgs() ([]value.Expr, error) {
	if p.isStop(efp.TokenTypeSubexpression) {
		p.pos++
		return nil, nil
	}
	var args []value.Expr
	for {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.isUnion() || p.isArgSep() {
			p.pos++
			continue
		}
		if err := p.expectStop(efp.TokenTypeSubexpression); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) expectStop(ttype string) error {
	if p.isStop(ttype) {
		p.pos++
		return nil
	}
	if p.isUnion() {
		return p.errf("range union is not supported")
	}
	if p.done() {
		return &Error{Msg: "unexpected end of formula"}
	}
	return p.errf("expected closing parenthesis")
}

// lambda parses LAMBDA(param..., body) at parse time so malformed parameter
// lists fail before any evaluation.
func (p *parser) lambda() (value.Expr, error) {
	args, err := p.callArgs()
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, &Error{Msg: "LAMBDA requires a body"}
	}
	body := args[len(args)-1]
	if body == nil {
		return nil, &Error{Msg: "LAMBDA body is missing"}
	}
	params := make([]string, 0, len(args)-1)
	seen := map[string]bool{}
	for _, a := range args[:len(args)-1] {
		name, ok := paramName(a)
		if !ok {
			return nil, &Error{Msg: "LAMBDA parameter must be a name", Token: exprText(a)}
		}
		folded := strings.ToUpper(name)
		if seen[folded] {
			return nil, &Error{Msg: "duplicate LAMBDA parameter", Token: name}
		}
		seen[folded] = true
		params = append(params, name)
	}
	return &lambdaNode{params: params, body: body}, nil
}

// let parses LET(name, value, ..., body): pairs of bindings with a final
// body expression.
func (p *parser) let() (value.Expr, error) {
	args, err := p.callArgs()
	if err != nil {
		return nil, err
	}
	if len(args) < 3 || len(args)%2 == 0 {
		return nil, &Error{Msg: "LET requires name/value pairs and a body"}
	}
	body := args[len(args)-1]
	if body == nil {
		return nil, &Error{Msg: "LET body is missing"}
	}
	n := len(args) / 2
	names := make([]string, 0, n)
	values := make([]value.Expr, 0, n)
	seen := map[string]bool{}
	for i := 0; i < len(args)-1; i += 2 {
		name, ok := paramName(args[i])
		if !ok {
			return nil, &Error{Msg: "LET binding must be a name", Token: exprText(args[i])}
		}
		folded := strings.ToUpper(name)
		if seen[folded] {
			return nil, &Error{Msg: "duplicate LET binding", Token: name}
		}
		seen[folded] = true
		if args[i+1] == nil {
			return nil, &Error{Msg: "LET binding has no value", Token: name}
		}
		names = append(names, name)
		values = append(values, args[i+1])
	}
	return &letNode{names: names, values: values, body: body}, nil
}

func paramName(e value.Expr) (string, bool) {
	n, ok := e.(*nameNode)
	if !ok {
		return "", false
	}
	return n.name, true
}

func exprText(e value.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// arrayLiteral parses {a,b;c,d}. the tokenizer renders braces as synthetic
// ARRAY and ARRAYROW function tokens, one ARRAYROW per semicolon-separated
// row.
func (p *parser) arrayLiteral() (value.Expr, error) {
	var rows [][]value.Expr
	for {
		if p.done() {
			return nil, &Error{Msg: "unterminated array literal"}
		}
		if p.isStop(efp.TokenTypeFunction) {
			p.pos++
			break
		}
		if p.isArgSep() {
			// separator between rows
			p.pos++
			continue
		}
		t := p.peek()
		if t.TType != efp.TokenTypeFunction || t.TSubType != efp.TokenSubTypeStart || t.TValue != "ARRAYROW" {
			return nil, p.errf("malformed array literal")
		}
		p.pos++
		row, err := p.arrayRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &Error{Msg: "empty array literal"}
	}
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != width {
			return nil, &Error{Msg: "array rows must have equal length"}
		}
	}
	return &arrayNode{rows: rows}, nil
}

func (p *parser) arrayRow() ([]value.Expr, error) {
	var row []value.Expr
	for {
		if p.done() {
			return nil, &Error{Msg: "unterminated array literal"}
		}
		if p.isStop(efp.TokenTypeFunction) {
			p.pos++
			if len(row) == 0 {
				return nil, &Error{Msg: "empty array row"}
			}
			return row, nil
		}
		if p.isArgSep() {
			return nil, p.errf("array literal element is empty")
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		row = append(row, e)
		if p.isArgSep() {
			p.pos++
			if p.isStop(efp.TokenTypeFunction) {
				return nil, p.errf("array literal element is empty")
			}
		}
	}
}
