package corpus

import (
	"fmt"
	"strings"
)

// ParseIDList parses the line-id list literal of a conversation row,
// e.g. ['L194', 'L195', 'L196'].
//
// Items are single- or double-quoted and separated by commas; whitespace
// around items and one trailing comma are allowed. Inside quotes, a
// backslash escapes either quote character or another backslash; any other
// backslash is kept as is. Empty ids and unquoted ids are rejected.
func ParseIDList(s string) ([]string, error) {
	p := listParser{src: strings.TrimSpace(s)}
	return p.parse()
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, p.errorf("expected '['")
	}

	var ids []string
	for {
		p.skipSpace()
		if p.consume(']') {
			break
		}
		id, err := p.quoted()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			break
		}
		if p.eof() {
			return nil, p.errorf("unterminated list")
		}
		return nil, p.errorf("expected ',' or ']'")
	}

	if !p.eof() {
		return nil, p.errorf("trailing input %q", p.src[p.pos:])
	}
	return ids, nil
}

func (p *listParser) quoted() (string, error) {
	if p.eof() {
		return "", p.errorf("unterminated list")
	}
	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected quoted id")
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			if b.Len() == 0 {
				return "", p.errorf("empty id")
			}
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src) && isEscapable(p.src[p.pos+1]):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func isEscapable(c byte) bool {
	return c == '\'' || c == '"' || c == '\\'
}

func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *listParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *listParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformedList, fmt.Sprintf(format, args...), p.pos)
}
