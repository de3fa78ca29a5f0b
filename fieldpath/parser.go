package fieldpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/code19m/errx"
)

// CodeInvalidPath is returned for empty or malformed path expressions.
const CodeInvalidPath = "INVALID_PATH"

// Parse parses a path expression.
func Parse(raw string) (Path, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, invalidPath(raw, 0, "path is empty")
	}

	p := &parser{raw: raw}
	path, err := p.parse()
	if err != nil {
		return nil, err
	}
	return path, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Path {
	path, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return path
}

type parser struct {
	raw  string
	pos  int
	segs Path
}

func (p *parser) eof() bool { return p.pos >= len(p.raw) }

func (p *parser) peek() byte { return p.raw[p.pos] }

func (p *parser) peekAt(offset int) (byte, bool) {
	if p.pos+offset >= len(p.raw) {
		return 0, false
	}
	return p.raw[p.pos+offset], true
}

func (p *parser) fail(reason string) error {
	return invalidPath(p.raw, p.pos, reason)
}

func (p *parser) parse() (Path, error) {
	switch {
	case p.peek() == '$':
		p.pos++
		if p.eof() {
			return nil, p.fail("root marker selects no field")
		}
		if c := p.peek(); c != '.' && c != '[' {
			return nil, p.fail("expected '.' or '[' after root marker")
		}
	case p.peek() == '.':
		if next, ok := p.peekAt(1); !ok || next != '.' {
			return nil, p.fail("empty segment")
		}
	case p.peek() == '[':
		// handled by the loop
	default:
		if err := p.member(); err != nil {
			return nil, err
		}
	}

	for !p.eof() {
		var err error
		switch p.peek() {
		case '.':
			err = p.dot()
		case '[':
			err = p.bracket(false)
		default:
			err = p.fail(fmt.Sprintf("unexpected character %q", p.peek()))
		}
		if err != nil {
			return nil, err
		}
	}

	if len(p.segs) == 0 {
		return nil, p.fail("path selects no field")
	}
	return p.segs, nil
}

// dot consumes "." or ".." and the member that follows.
func (p *parser) dot() error {
	if next, ok := p.peekAt(1); ok && next == '.' {
		p.pos += 2
		if p.eof() {
			return p.fail("recursive descent must be followed by a key")
		}
		p.segs = append(p.segs, Segment{Kind: Recursive})
		switch p.peek() {
		case '.':
			return p.fail("empty segment")
		case '[':
			return p.bracket(true)
		default:
			return p.member()
		}
	}

	p.pos++
	if p.eof() {
		return p.fail("empty segment")
	}
	if c := p.peek(); c == '.' || c == '[' {
		return p.fail("empty segment")
	}
	return p.member()
}

// member consumes a quoted literal, a wildcard or an unquoted literal.
func (p *parser) member() error {
	if p.peek() == '\'' {
		key, err := p.quoted()
		if err != nil {
			return err
		}
		p.segs = append(p.segs, Segment{Kind: Literal, Key: key})
		return p.expectBoundary()
	}

	start := p.pos
	for !p.eof() && p.peek() != '.' && p.peek() != '[' {
		p.pos++
	}
	key := p.raw[start:p.pos]
	if key == "" {
		return p.fail("empty segment")
	}

	if key == "*" {
		p.segs = append(p.segs, Segment{Kind: Wildcard})
		return nil
	}
	p.segs = append(p.segs, Segment{Kind: Literal, Key: key})
	return nil
}

// bracket consumes [n], [*] or ['key'].
func (p *parser) bracket(afterRecursive bool) error {
	p.pos++ // '['
	if p.eof() {
		return p.fail("unterminated bracket")
	}

	var seg Segment
	switch c := p.peek(); {
	case c == '*':
		p.pos++
		seg = Segment{Kind: Wildcard}
	case c == '\'':
		key, err := p.quoted()
		if err != nil {
			return err
		}
		seg = Segment{Kind: Literal, Key: key}
	default:
		start := p.pos
		for !p.eof() && p.peek() != ']' {
			p.pos++
		}
		idx, err := strconv.Atoi(strings.TrimSpace(p.raw[start:p.pos]))
		if err != nil {
			return invalidPath(p.raw, start, fmt.Sprintf("invalid index %q", p.raw[start:p.pos]))
		}
		if afterRecursive {
			return invalidPath(p.raw, start, "recursive descent cannot be followed by an index")
		}
		seg = Segment{Kind: Index, Index: idx}
	}

	if p.eof() || p.peek() != ']' {
		return p.fail("unterminated bracket")
	}
	p.pos++
	p.segs = append(p.segs, seg)
	return p.expectBoundary()
}

// quoted consumes a single-quoted literal and returns its unescaped content.
func (p *parser) quoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote

	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		switch c {
		case '\\':
			p.pos++
			if p.eof() {
				return "", invalidPath(p.raw, start, "unterminated quote")
			}
			b.WriteByte(p.peek())
		case '\'':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
		p.pos++
	}

	return "", invalidPath(p.raw, start, "unterminated quote")
}

func (p *parser) expectBoundary() error {
	if p.eof() || p.peek() == '.' || p.peek() == '[' {
		return nil
	}
	return p.fail(fmt.Sprintf("unexpected character %q after quoted key", p.peek()))
}

func invalidPath(raw string, pos int, reason string) error {
	return errx.New(
		fmt.Sprintf("[fieldpath]: invalid path %q: %s", raw, reason),
		errx.WithCode(CodeInvalidPath),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{
			"path":     raw,
			"position": pos,
			"reason":   reason,
		}),
	)
}
