package udmf

import (
	"fmt"
	"strconv"
	"strings"
)

// chunkResult is everything one chunk contributed to the document.
type chunkResult struct {
	globals Fields
	blocks  []Block
	unknown []string
}

type chunkParser struct {
	lex  lexer
	tok  token
	peek *token
}

func (p *chunkParser) advance() error {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return nil
	}
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *chunkParser) lookahead() (token, error) {
	if p.peek == nil {
		t, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.peek = &t
	}
	return *p.peek, nil
}

func (p *chunkParser) expectPunct(s string) error {
	if p.tok.kind != tokPunct || p.tok.text != s {
		return p.unexpected(fmt.Sprintf("%q", s))
	}
	return p.advance()
}

func (p *chunkParser) unexpected(want string) error {
	got := p.tok.kind.String()
	if p.tok.text != "" {
		got = fmt.Sprintf("%s %q", got, p.tok.text)
	}
	return fmt.Errorf("expected %s at offset %d, got %s", want, p.tok.pos, got)
}

// parseChunk parses one chunk as a sequence of global expressions:
//
//	udmf   := expr*
//	expr   := assign | ident '{' assign* '}'
//	assign := ident '=' value ';'
func parseChunk(src string) (*chunkResult, error) {
	p := &chunkParser{lex: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	res := &chunkResult{globals: Fields{}}
	for p.tok.kind != tokEOF {
		if p.tok.kind != tokIdent {
			return nil, fmt.Errorf("%w: %v", ErrParse, p.unexpected("identifier"))
		}
		next, err := p.lookahead()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if next.kind == tokPunct && next.text == "{" {
			name := p.tok.text
			fields, err := p.block()
			if err != nil {
				return nil, err
			}
			kind, ok := kindFromName(strings.ToLower(name))
			if !ok {
				res.unknown = append(res.unknown, name)
				continue
			}
			res.blocks = append(res.blocks, newBlock(kind, fields))
			continue
		}
		key, val, err := p.assignment()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		res.globals[key] = val
	}
	return res, nil
}

func (p *chunkParser) block() (Fields, error) {
	if err := p.advance(); err != nil { // name
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := p.advance(); err != nil { // {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	fields := Fields{}
	for {
		if p.tok.kind == tokPunct && p.tok.text == "}" {
			if err := p.advance(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParse, err)
			}
			return fields, nil
		}
		if p.tok.kind == tokEOF {
			return nil, fmt.Errorf("%w: %v", ErrParse, p.unexpected(`"}"`))
		}
		key, val, err := p.assignment()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		key = strings.ToLower(key)
		if old, dup := fields[key]; dup && old != val {
			return nil, fmt.Errorf("%w: field %q assigned both %q and %q", ErrAmbiguous, key, old.Raw, val.Raw)
		}
		fields[key] = val
	}
}

func (p *chunkParser) assignment() (string, Value, error) {
	if p.tok.kind != tokIdent {
		return "", Value{}, p.unexpected("identifier")
	}
	key := p.tok.text
	if err := p.advance(); err != nil {
		return "", Value{}, err
	}
	if err := p.expectPunct("="); err != nil {
		return "", Value{}, err
	}
	var val Value
	switch p.tok.kind {
	case tokNumber:
		f, err := parseNumber(p.tok.text)
		if err != nil {
			return "", Value{}, fmt.Errorf("bad number %q at offset %d", p.tok.text, p.tok.pos)
		}
		val = Value{Kind: NumberValue, Num: f, Raw: p.tok.text}
	case tokString:
		val = String(p.tok.text)
	case tokIdent:
		val = Ident(p.tok.text)
	default:
		return "", Value{}, p.unexpected("value")
	}
	if err := p.advance(); err != nil {
		return "", Value{}, err
	}
	if err := p.expectPunct(";"); err != nil {
		return "", Value{}, err
	}
	return key, val, nil
}

func parseNumber(s string) (float64, error) {
	body := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		n, err := strconv.ParseInt(s, 0, 64)
		return float64(n), err
	}
	return strconv.ParseFloat(s, 64)
}
