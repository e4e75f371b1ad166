// Package mathtext renders the small LaTeX subset used by question banks as
// plain terminal text.
package mathtext

import (
	"strings"
	"unicode/utf8"
)

var symbols = map[string]string{
	"pi":     "π",
	"alpha":  "α",
	"beta":   "β",
	"theta":  "θ",
	"phi":    "φ",
	"cdot":   "·",
	"times":  "×",
	"circ":   "°",
	"pm":     "±",
	"le":     "≤",
	"ge":     "≥",
	"neq":    "≠",
	"infty":  "∞",
	"sin":    "sin",
	"cos":    "cos",
	"tan":    "tan",
	"cot":    "cot",
	"sec":    "sec",
	"csc":    "csc",
	"left":   "",
	"right":  "",
	"quad":   " ",
	"degree": "°",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'-': '⁻', 'n': 'ⁿ',
}

// Render converts s to plain text. Math delimiters are dropped and unknown
// commands are written without their backslash.
func Render(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	p := parser{src: s}
	return strings.TrimSpace(p.parse(false))
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) parse(inGroup bool) string {
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case '}':
			if inGroup {
				p.pos++
				return b.String()
			}
			p.pos++
		case '{':
			p.pos++
			b.WriteString(p.parse(true))
		case '\\':
			p.pos++
			b.WriteString(p.command())
		case '^':
			p.pos++
			b.WriteString(superscript(p.argument()))
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return b.String()
}

func (p *parser) command() string {
	start := p.pos
	for !p.eof() && isLetter(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		// Escaped single character such as "\{" or "\,".
		if p.eof() {
			return ""
		}
		c := p.src[p.pos]
		p.pos++
		if c == ',' || c == ';' {
			return " "
		}
		return string(c)
	}

	switch name {
	case "frac", "dfrac", "tfrac":
		num := p.argument()
		den := p.argument()
		return group(num) + "/" + group(den)
	case "sqrt":
		return "√" + group(p.argument())
	}

	if sym, ok := symbols[name]; ok {
		return sym
	}
	return name
}

// argument reads one braced group or a single character.
func (p *parser) argument() string {
	for !p.eof() && p.src[p.pos] == ' ' {
		p.pos++
	}
	if p.eof() {
		return ""
	}
	switch p.src[p.pos] {
	case '{':
		p.pos++
		return p.parse(true)
	case '\\':
		p.pos++
		return p.command()
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return string(r)
}

// group parenthesizes compound operands so "a+b/2" stays unambiguous.
func group(s string) string {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "+-/ ") && utf8.RuneCountInString(s) > 1 {
		return "(" + s + ")"
	}
	return s
}

func superscript(s string) string {
	if s == "°" {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		sup, ok := superscripts[r]
		if !ok {
			return "^" + group(s)
		}
		b.WriteRune(sup)
	}
	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
