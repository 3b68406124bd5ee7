package doc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A Caser is stateful, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// CapForm capitalizes every word of s, e.g. "data type" to "Data Type".
func CapForm(s string) string {
	return titleCase(s)
}

// CapPluralForm returns the capitalized English plural of a page type
// label, e.g. "class" to "Classes".
func CapPluralForm(s string) string {
	return CapForm(plural(s))
}

func plural(s string) string {
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return s
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return s + "es"
	case strings.HasSuffix(lower, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

// CamelCase joins the words of s capitalized, e.g. "output formats" to
// "OutputFormats". Everything but ASCII letters and digits separates words.
func CamelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, "")
}

var blockTags = map[string]bool{
	"br": true, "dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "p": true, "pre": true, "table": true, "td": true, "tr": true, "ul": true,
}

// ClearText returns the text content of an HTML fragment with entities
// decoded and white space collapsed.
func ClearText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				sb.WriteByte(' ')
			}
		}
	}
}
