package content

import (
	"strings"
)

// HTMLEscape escapes s for use as literal HTML text. Blanks become
// non-breaking spaces so code spans keep their layout.
func HTMLEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case ' ':
			b.WriteString("&nbsp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LaTeXEscape escapes the LaTeX special characters in s.
func LaTeXEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '$', '%', '_', '{', '}', '&', '#':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '[':
			b.WriteString("{[}")
		case ']':
			b.WriteString("{]}")
		case '´':
			b.WriteByte('\'')
		case '°':
			b.WriteString("{\\textdegree}")
		case '|':
			b.WriteString("{\\textbar}")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type replacement struct {
	from, to string
}

// latexRules are tried in order at every position; the first match wins.
var latexRules = []replacement{
	{"LaTeX", "{\\LaTeX}"},

	{"<HR>", "\\noindent\\rule{\\textwidth}{0.4pt} "},
	{"<em>", "\\textit{"},
	{"</em>", "}"},
	{"<b>", "\\textbf{"},
	{"</b>", "}"},
	{"<sup>", "$^\\textrm{\\footnotesize "},
	{"</sup>", "}$"},
	{"<sub>", "$_\\textrm{\\footnotesize "},
	{"</sub>", "}$"},

	{"&amp;", "\\&"},
	{"&gamma;", "$\\gamma$"},
	{"&#42;", "*"},
	{"&#124;", "{\\textbar}"},
	{"&#47;", "/"},
	{"&#64;", "@"},
	{"&lt;", "{\\textless}"},
	{"&gt;", "{\\textgreater}"},
	{"&#8477;", "$\\mathbb{R}$"},

	// no en/em dash ligatures
	{"--", "-{}-"},

	{"$", "\\$"},
	{"%", "\\%"},
	{"_", "\\_"},
	{"{", "\\{"},
	{"}", "\\}"},
	{"[", "{[}"},
	{"]", "{]}"},
	{"&", "\\&"},
	{"#", "\\#"},
	{"´", "'"},
	{"°", "{\\textdegree}"},
	{"|", "{\\textbar}"},
	{"<", "{\\textless}"},
	{">", "{\\textgreater}"},
}

// ConvertHTMLToLaTeX translates the small HTML subset allowed in markup text
// into LaTeX.
func ConvertHTMLToLaTeX(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); {
		matched := false
		for _, r := range latexRules {
			if strings.HasPrefix(s[i:], r.from) {
				b.WriteString(r.to)
				i += len(r.from)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// FirstWord returns the first blank-separated word of s.
func FirstWord(s string) (string, bool) {
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return "", false
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], true
	}
	return s, true
}

// AllButFirstWord returns the text after the first word with leading blanks
// removed. The bool is false when s holds no word at all.
func AllButFirstWord(s string) (string, bool) {
	s = strings.TrimLeft(s, " ")
	if s == "" {
		return "", false
	}
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return "", true
	}
	return strings.TrimLeft(s[i:], " "), true
}

// FirstWordOrQuote is FirstWord, except that a leading double quoted string
// counts as one word and is returned without its quotes.
func FirstWordOrQuote(s string) (string, bool) {
	s = strings.TrimLeft(s, " ")
	if !strings.HasPrefix(s, `"`) {
		return FirstWord(s)
	}
	rest := s[1:]
	if i := strings.IndexByte(rest, '"'); i >= 0 {
		return rest[:i], true
	}
	return rest, true
}

// AllButFirstWordOrQuote is the counterpart of FirstWordOrQuote.
func AllButFirstWordOrQuote(s string) (string, bool) {
	s = strings.TrimLeft(s, " ")
	if !strings.HasPrefix(s, `"`) {
		return AllButFirstWord(s)
	}
	rest := s[1:]
	i := strings.IndexByte(rest, '"')
	if i < 0 {
		return "", true
	}
	return strings.TrimLeft(rest[i+1:], " "), true
}

// FirstLine returns s up to the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// MakeIdentifier reduces the first word of s to an identifier: letters
// anywhere, digits and underscores only after the first letter.
func MakeIdentifier(s string) string {
	word, ok := FirstWord(s)
	if !ok {
		return "no-identifier"
	}
	var b strings.Builder
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case isLetter(c):
			b.WriteByte(c)
		case (isDigit(c) || c == '_') && b.Len() > 0:
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return "no-identifier"
	}
	return b.String()
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

// IsIdentChar reports whether c may appear in a reference identifier.
func IsIdentChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

// IsBlank reports whether c is a space or a tab.
func IsBlank(c byte) bool { return c == ' ' || c == '\t' }
