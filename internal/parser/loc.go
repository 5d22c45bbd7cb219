package parser

import (
	"bufio"
	"bytes"
	"strings"
)

// CountLines classifies every line of src as source, comment or empty.
// A line holding both code and a comment counts as source. Only C-style
// comments are recognized.
func CountLines(src []byte) LinesOfCode {
	var loc LinesOfCode
	inBlock := false

	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" && !inBlock:
			loc.EmptyLines++
		case inBlock || strings.HasPrefix(line, "//"):
			if inBlock {
				if i := strings.Index(line, "*/"); i >= 0 {
					inBlock = false
					if rest := strings.TrimSpace(line[i+2:]); rest != "" && !strings.HasPrefix(rest, "//") {
						loc.SourceLines++
						continue
					}
				}
			}
			loc.CommentLines++
		case strings.HasPrefix(line, "/*"):
			end := strings.Index(line[2:], "*/")
			if end < 0 {
				inBlock = true
				loc.CommentLines++
				continue
			}
			if rest := strings.TrimSpace(line[end+4:]); rest != "" && !strings.HasPrefix(rest, "//") {
				loc.SourceLines++
			} else {
				loc.CommentLines++
			}
		default:
			loc.SourceLines++
			if i := strings.LastIndex(line, "/*"); i >= 0 && !strings.Contains(line[i:], "*/") {
				inBlock = true
			}
		}
	}
	return loc
}
