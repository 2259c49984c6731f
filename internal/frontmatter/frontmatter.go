// Package frontmatter splits a markdown document into its YAML frontmatter
// and body. The client never interprets document frontmatter — that is the
// backend's job — but type definition files carry display metadata worth
// showing in pickers.
package frontmatter

import (
	"bufio"
	"fmt"
	"strings"
)

// Document is a markdown file split at its frontmatter delimiters.
type Document struct {
	// FrontmatterYAML is the raw YAML between the delimiters, without them
	FrontmatterYAML string
	// Body is the markdown content after the frontmatter
	Body string
	// HasFrontmatter reports whether both delimiters were present
	HasFrontmatter bool
}

// Split separates YAML frontmatter from body content. Frontmatter is
// delimited by "---" lines at the start and end. A document without
// frontmatter is valid: everything is body.
func Split(data string) (*Document, error) {
	scanner := bufio.NewScanner(strings.NewReader(data))

	var inFrontmatter bool
	var fmLines []string
	var bodyLines []string
	var delimiters int

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "---" && delimiters < 2 {
			delimiters++
			inFrontmatter = delimiters == 1
			continue
		}

		switch {
		case inFrontmatter:
			fmLines = append(fmLines, line)
		default:
			bodyLines = append(bodyLines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}

	// A single delimiter means an unterminated frontmatter block; treat the
	// whole document as body so a half-written file still lists.
	if delimiters == 1 {
		bodyLines = append(fmLines, bodyLines...)
		fmLines = nil
	}

	return &Document{
		FrontmatterYAML: strings.Join(fmLines, "\n"),
		Body:            strings.TrimSpace(strings.Join(bodyLines, "\n")),
		HasFrontmatter:  delimiters >= 2,
	}, nil
}
