package extractor

import (
	"bytes"
	"strings"
)

// scanText finds documentation comments in files without a grammar. It
// knows comments only; string literals are not recognized.
func scanText(path string, src []byte) []*Comment {
	var comments []*Comment
	line := 1
	for i := 0; i < len(src); {
		switch {
		case src[i] == '\n':
			line++
			i++

		case bytes.HasPrefix(src[i:], []byte("/*")):
			end := bytes.Index(src[i+2:], []byte(blockClose))
			stop := len(src)
			if end >= 0 {
				stop = i + 2 + end + len(blockClose)
			}
			raw := string(src[i:stop])
			lines := strings.Count(raw, "\n")
			if strings.HasPrefix(raw, blockOpen) {
				comments = append(comments, &Comment{
					Filepath:  path,
					Language:  "text",
					StartLine: line,
					EndLine:   line + lines,
					Kind:      CommentBlock,
					Text:      blockText(raw),
				})
			}
			line += lines
			i = stop

		case bytes.HasPrefix(src[i:], []byte("//")):
			stop := bytes.IndexByte(src[i:], '\n')
			if stop < 0 {
				stop = len(src)
			} else {
				stop += i
			}
			raw := string(src[i:stop])
			if strings.HasPrefix(raw, lineOpen) {
				text := strings.TrimPrefix(raw, lineOpen)
				if n := len(comments); n > 0 && comments[n-1].Kind == CommentLine && comments[n-1].EndLine == line-1 && onlyBlanksBefore(src, i) {
					comments[n-1].Text += "\n" + text
					comments[n-1].EndLine = line
				} else {
					comments = append(comments, &Comment{
						Filepath:  path,
						Language:  "text",
						StartLine: line,
						EndLine:   line,
						Kind:      CommentLine,
						Text:      text,
					})
				}
			}
			i = stop

		default:
			i++
		}
	}
	return comments
}

// onlyBlanksBefore reports whether the line holding position i has nothing
// but blanks in front of it.
func onlyBlanksBefore(src []byte, i int) bool {
	for j := i - 1; j >= 0 && src[j] != '\n'; j-- {
		if src[j] != ' ' && src[j] != '\t' {
			return false
		}
	}
	return true
}
