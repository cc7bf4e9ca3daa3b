// Package resolver fills {{key}} placeholders in document templates.
//
// A template body is scanned once into a token stream of literal text,
// field references and image references. The stream is then replayed
// against any number of field maps. Field references resolve
// case-insensitively and resolve to "" when the key is missing, so raw
// template syntax never leaks into a document. The reserved keys
// "assinatura" and "carimbo" are image references: they are emitted
// verbatim for the layout engine, which swaps them for the signature and
// stamp images.
package resolver

import (
	"regexp"
	"strings"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

// Reserved placeholder keys that mark image insertion points.
const (
	SignatureKey = "assinatura"
	StampKey     = "carimbo"
)

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// TokenKind tags a Token.
type TokenKind int

const (
	TextRun TokenKind = iota
	FieldRef
	ImageRef
)

// Token is one element of a compiled template.
type Token struct {
	Kind TokenKind
	// Raw is the literal text for a TextRun and the full "{{...}}" token
	// for references.
	Raw string
	// Key is the normalised (trimmed, lower-case) key of a reference.
	Key  string
	Role domain.ImageRole
}

// Compiled is a template body scanned into tokens. It is immutable and
// safe for concurrent use.
type Compiled struct {
	tokens []Token
}

// Compile scans body once. Unterminated "{{" is kept as literal text.
func Compile(body string) *Compiled {
	c := &Compiled{}
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(body, -1) {
		if m[0] > last {
			c.tokens = append(c.tokens, Token{Kind: TextRun, Raw: body[last:m[0]]})
		}
		raw := body[m[0]:m[1]]
		key := NormalizeKey(body[m[2]:m[3]])
		if role, ok := ImageRole(key); ok {
			c.tokens = append(c.tokens, Token{Kind: ImageRef, Raw: raw, Key: key, Role: role})
		} else {
			c.tokens = append(c.tokens, Token{Kind: FieldRef, Raw: raw, Key: key})
		}
		last = m[1]
	}
	if last < len(body) {
		c.tokens = append(c.tokens, Token{Kind: TextRun, Raw: body[last:]})
	}
	return c
}

// Tokens returns a copy of the token stream.
func (c *Compiled) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Execute replays the token stream against fields. Substituted values are
// not re-scanned.
func (c *Compiled) Execute(fields domain.FieldMap) string {
	var b strings.Builder
	for _, t := range c.tokens {
		switch t.Kind {
		case TextRun, ImageRef:
			b.WriteString(t.Raw)
		case FieldRef:
			v, _ := fields.Lookup(t.Key)
			b.WriteString(v)
		}
	}
	return b.String()
}

// Fields returns the distinct field keys referenced, in order of first use.
func (c *Compiled) Fields() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range c.tokens {
		if t.Kind == FieldRef && !seen[t.Key] {
			seen[t.Key] = true
			out = append(out, t.Key)
		}
	}
	return out
}

// Images returns the distinct image roles referenced, in order of first use.
func (c *Compiled) Images() []domain.ImageRole {
	seen := map[domain.ImageRole]bool{}
	var out []domain.ImageRole
	for _, t := range c.tokens {
		if t.Kind == ImageRef && !seen[t.Role] {
			seen[t.Role] = true
			out = append(out, t.Role)
		}
	}
	return out
}

// Resolve compiles template and executes it against fields.
func Resolve(template string, fields domain.FieldMap) string {
	return Compile(template).Execute(fields)
}

// NormalizeKey trims and lower-cases a placeholder key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ImageRole maps a normalised key to the image role it reserves.
func ImageRole(key string) (domain.ImageRole, bool) {
	switch key {
	case SignatureKey:
		return domain.RoleSignature, true
	case StampKey:
		return domain.RoleStamp, true
	}
	return "", false
}

// ImageToken reports whether s, once trimmed, is exactly one reserved
// image token, and which role it reserves.
func ImageToken(s string) (domain.ImageRole, bool) {
	s = strings.TrimSpace(s)
	m := placeholderRe.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || m[1] != len(s) {
		return "", false
	}
	return ImageRole(NormalizeKey(s[m[2]:m[3]]))
}

// PreviewText replaces image tokens in already-resolved text with the
// notice registered for their role. Tokens without a notice are kept.
func PreviewText(resolved string, notices map[domain.ImageRole]string) string {
	var b strings.Builder
	for _, t := range Compile(resolved).tokens {
		if t.Kind == ImageRef {
			if n, ok := notices[t.Role]; ok {
				b.WriteString(n)
				continue
			}
		}
		b.WriteString(t.Raw)
	}
	return b.String()
}
