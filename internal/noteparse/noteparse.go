package noteparse

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	markerPattern   = regexp.MustCompile(`^This is a (.*) Concept\.$`)
	wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]]+?)\]\]`)
)

// Note is a parsed vault note.
type Note struct {
	// Frontmatter key-value pairs, if the note has a --- block.
	Frontmatter map[string]string

	// Product is set when the first body line is a concept marker
	// ("This is a <Product> Concept.").
	Product   string
	IsConcept bool

	// Body is everything after the marker and its blank separator line,
	// or the whole body for non-concept notes.
	Body string

	// Links are wikilink targets in body order, without alias or heading.
	Links []string
}

// ParseFile reads and parses a note from disk.
func ParseFile(path string) (*Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and parses a note from a reader.
func Parse(r io.Reader) (*Note, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	note := &Note{
		Frontmatter: make(map[string]string),
	}

	// State machine for frontmatter
	inFrontmatter := false
	frontmatterDone := false
	var bodyLines []string

	for scanner.Scan() {
		line := scanner.Text()

		if !inFrontmatter && !frontmatterDone {
			if strings.TrimSpace(line) == "---" {
				inFrontmatter = true
				continue
			}
			// No frontmatter delimiter; treat as body
			bodyLines = append(bodyLines, line)
			frontmatterDone = true
			continue
		}

		if inFrontmatter {
			if strings.TrimSpace(line) == "---" {
				inFrontmatter = false
				frontmatterDone = true
				continue
			}
			if idx := strings.IndexByte(line, ':'); idx > 0 {
				key := strings.TrimSpace(line[:idx])
				val := strings.TrimSpace(line[idx+1:])
				note.Frontmatter[key] = stripQuotes(val)
			}
			continue
		}

		bodyLines = append(bodyLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(bodyLines) > 0 {
		if m := markerPattern.FindStringSubmatch(bodyLines[0]); m != nil {
			note.IsConcept = true
			note.Product = m[1]
			bodyLines = bodyLines[1:]
			if len(bodyLines) > 0 && bodyLines[0] == "" {
				bodyLines = bodyLines[1:]
			}
		}
	}

	note.Body = strings.Join(bodyLines, "\n")
	note.Links = Links(note.Body)

	return note, nil
}

// Links returns the wikilink targets in text, in order. "[[A|alias]]" and
// "[[A#Heading]]" both yield "A". Embeds ("![[...]]") are included.
func Links(text string) []string {
	var links []string
	for _, m := range wikiLinkPattern.FindAllStringSubmatch(text, -1) {
		target := m[1]
		if i := strings.IndexAny(target, "|#"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target != "" {
			links = append(links, target)
		}
	}
	return links
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
