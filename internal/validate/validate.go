package validate

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"lonelog/internal/delta"
	"lonelog/internal/parser"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeTagDropped         = "tag_dropped"
	codeChangeIgnored      = "change_ignored"
	codeInvalidFrontmatter = "invalid_frontmatter"
)

// tagMarkerPattern matches anything shaped like a tag, including keywords
// and payloads the tag extractor rejects.
var tagMarkerPattern = regexp.MustCompile(`\[#?[A-Za-z]+:[^\]]*\]`)

var lineBreakPattern = regexp.MustCompile(`\r\n|\r|\n`)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
	FilePath string   `json:"file,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Text lints a log body. Line numbers are 1-based and count blank lines.
// Only consequence lines are checked, since no other entry carries state.
func Text(text string) []Issue {
	issues := make([]Issue, 0)
	for i, raw := range lineBreakPattern.Split(text, -1) {
		line := parser.TrimLine(raw)
		if line == "" {
			continue
		}
		entry := parser.ParseLine(line)
		if entry.Type != parser.EntryConsequence {
			continue
		}
		issues = append(issues, droppedTags(entry.Text, i+1)...)
		issues = append(issues, ignoredChanges(entry.Tags, i+1)...)
	}
	return issues
}

// Files lints each note. Line numbers refer to the decoded log: for notes
// with fenced lonelog blocks that is the joined block contents.
func Files(paths []string) (*Report, error) {
	issues := make([]Issue, 0)
	for _, path := range paths {
		note, err := parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, parser.ErrInvalidFrontmatter) || errors.Is(err, parser.ErrInvalidSession) {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeInvalidFrontmatter,
					Message:  err.Error(),
					FilePath: path,
				})
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		for _, issue := range Text(note.Log) {
			issue.FilePath = path
			issues = append(issues, issue)
		}
	}
	return &Report{Issues: issues}, nil
}

func droppedTags(text string, line int) []Issue {
	var issues []Issue
	for _, marker := range tagMarkerPattern.FindAllString(text, -1) {
		if len(parser.ExtractTags(marker)) == 1 {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeTagDropped,
			Message:  fmt.Sprintf("%s is not a recognized tag and was ignored", marker),
			Line:     line,
		})
	}
	return issues
}

func ignoredChanges(tags []parser.Tag, line int) []Issue {
	var issues []Issue
	for _, tag := range tags {
		var tokens []string
		switch tag.Kind {
		case parser.TagPC:
			tokens = tag.Changes
		case parser.TagNPC:
			tokens = tag.Tags
		default:
			continue
		}
		for _, token := range tokens {
			if _, ok := delta.ParseChange(token); ok {
				continue
			}
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeChangeIgnored,
				Message:  fmt.Sprintf("%q on %s is not a recognized change", token, tag.Name),
				Line:     line,
			})
		}
	}
	return issues
}
