package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	lineBreakPattern   = regexp.MustCompile(`\r\n|\r|\n`)
	scenePattern       = regexp.MustCompile(`^(T\d+-S\d+[a-z]?|S\d+(?:\.\d+|[a-z])?)\s+(.+)$`)
	answerRollPattern  = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)$`)
	npcDialoguePattern = regexp.MustCompile(`^N \(([^)]+)\):\s*"(.*)"$`)
	pcDialoguePattern  = regexp.MustCompile(`^PC:\s*"(.*)"$`)
	metaNotePattern    = regexp.MustCompile(`^\(note:\s*(.*)\)$`)
)

const rollResultSeparator = "->"

// Parse decodes a Lonelog body into one entry per non-blank line. It never
// fails: lines that match no notation become narrative entries.
func Parse(body string) []Entry {
	entries := []Entry{}
	if body == "" {
		return entries
	}
	for _, raw := range lineBreakPattern.Split(body, -1) {
		line := TrimLine(raw)
		if line == "" {
			continue
		}
		entries = append(entries, ParseLine(line))
	}
	return entries
}

// TrimLine strips surrounding whitespace and stray byte order marks from a
// raw log line.
func TrimLine(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}

// ParseLine classifies a single trimmed, non-blank line.
func ParseLine(line string) Entry {
	if m := scenePattern.FindStringSubmatch(line); m != nil {
		return Entry{Type: EntryScene, Number: m[1], Context: sceneContext(m[2])}
	}

	switch {
	case strings.HasPrefix(line, "@"):
		return Entry{Type: EntryAction, Text: rest(line, "@")}
	case strings.HasPrefix(line, "?"):
		return Entry{Type: EntryOracleQuestion, Text: rest(line, "?")}
	case strings.HasPrefix(line, "->"):
		return oracleAnswer(rest(line, "->"))
	case strings.HasPrefix(line, "d:"):
		return roll(rest(line, "d:"))
	case strings.HasPrefix(line, "=>"):
		text := rest(line, "=>")
		return Entry{Type: EntryConsequence, Text: text, Tags: ExtractTags(text)}
	}

	if m := npcDialoguePattern.FindStringSubmatch(line); m != nil {
		return Entry{Type: EntryDialogue, Speaker: m[1], Text: m[2]}
	}
	if m := pcDialoguePattern.FindStringSubmatch(line); m != nil {
		return Entry{Type: EntryDialogue, Speaker: "PC", Text: m[1]}
	}

	switch {
	case strings.HasPrefix(line, "tbl:"):
		fields := strings.Fields(rest(line, "tbl:"))
		return Entry{
			Type:   EntryTableRoll,
			Source: field(fields, 0),
			Roll:   field(fields, 1),
			Result: joinFrom(fields, 2),
		}
	case strings.HasPrefix(line, "gen:"):
		fields := strings.Fields(rest(line, "gen:"))
		return Entry{Type: EntryGenerator, Source: field(fields, 0), Result: joinFrom(fields, 1)}
	}

	if m := metaNotePattern.FindStringSubmatch(line); m != nil {
		return Entry{Type: EntryMetaNote, Text: strings.TrimSpace(m[1])}
	}

	return Entry{Type: EntryNarrative, Text: line}
}

func sceneContext(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "*"))
}

func oracleAnswer(text string) Entry {
	if m := answerRollPattern.FindStringSubmatch(text); m != nil {
		return Entry{Type: EntryOracleAnswer, Text: strings.TrimSpace(m[1]), Roll: strings.TrimSpace(m[2])}
	}
	return Entry{Type: EntryOracleAnswer, Text: text}
}

func roll(text string) Entry {
	dice, result, _ := strings.Cut(text, rollResultSeparator)
	result = strings.TrimSpace(result)
	return Entry{
		Type:    EntryRoll,
		Roll:    strings.TrimSpace(dice),
		Result:  result,
		Success: rollSuccess(result),
	}
}

func rollSuccess(result string) *bool {
	lower := strings.ToLower(result)
	var success bool
	switch {
	case strings.Contains(lower, "success"), strings.Contains(lower, "hit"):
		success = true
	case strings.Contains(lower, "fail"), strings.Contains(lower, "miss"):
		success = false
	default:
		return nil
	}
	return &success
}

func rest(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func joinFrom(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.Join(fields[i:], " ")
}
