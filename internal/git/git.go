// Package git reads changed lines from git diff output.
package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ChangedFile lists the changed lines of one file in its new version.
// Removed lines are reported as the line they were removed before.
type ChangedFile struct {
	Path         string
	ChangedLines []int
	Deleted      bool
}

// Touches reports whether any changed line lies in [start, end]. A deleted
// file touches everything.
func (c ChangedFile) Touches(start, end int) bool {
	if c.Deleted {
		return true
	}
	for _, l := range c.ChangedLines {
		if l >= start && l <= end {
			return true
		}
	}
	return false
}

// GetChangedFiles runs git diff against baseRef in dir. Paths are returned
// relative to dir.
func GetChangedFiles(ctx context.Context, dir, baseRef string) ([]ChangedFile, error) {
	if baseRef == "" {
		baseRef = "HEAD"
	}
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "diff", "--relative", "-U0", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	return parseDiff(output)
}

// @@ -oldStart,oldLen +newStart,newLen @@
var hunkHeader = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

func parseDiff(output []byte) ([]ChangedFile, error) {
	sc := bufio.NewScanner(bytes.NewReader(output))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var changes []ChangedFile
	var cur *ChangedFile
	flush := func() {
		if cur != nil {
			changes = append(changes, *cur)
			cur = nil
		}
	}

	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			parts := strings.Fields(line)
			if len(parts) < 4 {
				continue
			}
			cur = &ChangedFile{Path: filepath.ToSlash(strings.TrimPrefix(parts[3], "b/"))}

		case cur == nil:

		case strings.HasPrefix(line, "+++ /dev/null"):
			cur.Deleted = true

		case strings.HasPrefix(line, "@@"):
			m := hunkHeader.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("malformed hunk header %q", line)
			}
			start, _ := strconv.Atoi(m[1])
			count := 1
			if m[2] != "" {
				count, _ = strconv.Atoi(m[2])
			}
			if count == 0 {
				// pure removal: mark the line the hunk sits at
				cur.ChangedLines = append(cur.ChangedLines, start)
				continue
			}
			for i := 0; i < count; i++ {
				cur.ChangedLines = append(cur.ChangedLines, start+i)
			}
		}
	}
	flush()
	return changes, sc.Err()
}
