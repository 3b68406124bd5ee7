package generator

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"escrido/internal/content"
)

func placeholder(name string) string { return "*escrido-" + name + "*" }

type renderFunc func(w io.Writer, ctx *content.WriteContext) error

// replacer fills the placeholders of one template. The first render error
// is kept and later replacements are skipped.
type replacer struct {
	text   string
	ctx    *content.WriteContext
	escape func(string) string
	err    error
}

// str replaces the placeholder with escaped text.
func (r *replacer) str(name, value string) {
	r.raw(placeholder(name), r.escape(value))
}

// raw replaces every occurrence of ph with repl as is.
func (r *replacer) raw(ph, repl string) {
	if r.err != nil {
		return
	}
	r.text = strings.ReplaceAll(r.text, ph, repl)
}

// list replaces a placeholder holding '#': without the '#' it takes the
// first value, with a digit in its place the value at that index. Indices
// up to 9 are always replaced, missing ones by "".
func (r *replacer) list(name string, values []string) {
	at := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
	r.str(strings.Replace(name, "#", "", 1), at(0))
	n := 10
	if len(values) > n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		r.str(strings.Replace(name, "#", strconv.Itoa(i), 1), at(i))
	}
}

// render replaces every occurrence of the placeholder with the output of
// fn. A placeholder preceded only by blanks on its line hands those blanks
// to the renderer as margin, so multi-line output keeps the column.
func (r *replacer) render(name string, fn renderFunc) {
	ph := placeholder(name)
	if r.err != nil || !strings.Contains(r.text, ph) {
		return
	}
	var sb strings.Builder
	rest := r.text
	for {
		i := strings.Index(rest, ph)
		if i < 0 {
			sb.WriteString(rest)
			break
		}
		head, margin := splitMargin(rest[:i])
		sb.WriteString(head)

		var out strings.Builder
		r.ctx.Margin = margin
		err := fn(&out, r.ctx)
		r.ctx.Margin = ""
		if err != nil {
			r.err = fmt.Errorf("render %s: %w", ph, err)
			return
		}
		s := out.String()
		if s != "" && !strings.HasPrefix(s, margin) {
			s = margin + s
		}
		sb.WriteString(s)
		rest = rest[i+len(ph):]
	}
	r.text = sb.String()
}

// splitMargin cuts the trailing blanks off head when they are all that
// precedes the cut on its line.
func splitMargin(head string) (string, string) {
	j := len(head)
	for j > 0 && (head[j-1] == ' ' || head[j-1] == '\t') {
		j--
	}
	if j == len(head) || (j > 0 && head[j-1] != '\n') {
		return head, ""
	}
	return head[:j], head[j:]
}
