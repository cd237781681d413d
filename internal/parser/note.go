package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Note struct {
	Frontmatter map[string]any
	Title       string
	Session     int
	Log         string
	Entries     []Entry
	SourceFile  string
}

var (
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
	ErrInvalidSession     = errors.New("frontmatter 'session' must be an integer")
)

const logFenceInfo = "lonelog"

func ParseFile(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	note, err := ParseNote(data)
	if err != nil {
		return nil, err
	}
	note.SourceFile = path
	return note, nil
}

// ParseNote reads a session note. Frontmatter is optional; when the note
// holds fenced lonelog blocks only their contents are decoded, otherwise the
// whole body is.
func ParseNote(content []byte) (*Note, error) {
	trimmed := bytes.TrimLeft(content, "\ufeff\n\r\t ")
	body := string(trimmed)
	frontmatter := map[string]any{}

	if bytes.HasPrefix(trimmed, []byte("---\n")) {
		rest := trimmed[len("---\n"):]
		end := bytes.Index(rest, []byte("---\n"))
		if end == -1 {
			return nil, fmt.Errorf("%w: missing closing marker", ErrInvalidFrontmatter)
		}
		if err := yaml.Unmarshal(rest[:end], &frontmatter); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
		if frontmatter == nil {
			frontmatter = map[string]any{}
		}
		body = string(rest[end+len("---\n"):])
	}

	title, _ := frontmatter["title"].(string)
	session, err := parseSession(frontmatter["session"])
	if err != nil {
		return nil, err
	}

	log := body
	if blocks := fencedBlocks(body, logFenceInfo); len(blocks) > 0 {
		log = strings.Join(blocks, "\n")
	}

	return &Note{
		Frontmatter: frontmatter,
		Title:       strings.TrimSpace(title),
		Session:     session,
		Log:         log,
		Entries:     Parse(log),
	}, nil
}

func parseSession(value any) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	default:
		return 0, ErrInvalidSession
	}
}

// fencedBlocks returns the contents of every ``` or ~~~ fenced block whose
// info string is info. An unterminated block runs to the end of the body.
func fencedBlocks(body, info string) []string {
	var blocks []string
	var current []string
	var fence string
	inBlock := false

	for _, line := range lineBreakPattern.Split(body, -1) {
		stripped := strings.TrimSpace(line)
		if fence == "" {
			marker := fenceMarker(stripped)
			if marker == "" {
				continue
			}
			fence = marker
			inBlock = strings.EqualFold(strings.TrimSpace(stripped[len(marker):]), info)
			current = nil
			continue
		}
		if strings.HasPrefix(stripped, fence) && strings.TrimSpace(strings.TrimLeft(stripped, fence[:1])) == "" {
			if inBlock {
				blocks = append(blocks, strings.Join(current, "\n"))
			}
			fence = ""
			inBlock = false
			continue
		}
		if inBlock {
			current = append(current, line)
		}
	}
	if inBlock {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

func fenceMarker(line string) string {
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(line) && line[n:n+1] == ch {
			n++
		}
		if n >= 3 {
			return strings.Repeat(ch, n)
		}
	}
	return ""
}
