package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`\[(#)?(N|L|E|Clock|Track|Timer|Thread|PC):([^|\]]+)(?:\|([^\]]*))?\]`)

	progressPattern     = regexp.MustCompile(`^(.+?)\s+(\d+)/(\d+)$`)
	bareProgressPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
	timerPattern        = regexp.MustCompile(`^(.+?)\s+(\d+)$`)
	bareTimerPattern    = regexp.MustCompile(`^(\d+)$`)
)

const defaultThreadState = "Open"

// ExtractTags returns the persistent tags in text in the order they appear.
// Markers whose kind is unknown, or whose tracker value cannot be read,
// are left out.
func ExtractTags(text string) []Tag {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]Tag, 0, len(matches))
	for _, m := range matches {
		tag, ok := buildTag(m[2], strings.TrimSpace(m[3]), m[4], m[1] == "#")
		if !ok {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func buildTag(keyword, name, data string, ref bool) (Tag, bool) {
	switch keyword {
	case "N":
		return Tag{Kind: TagNPC, Name: name, Tags: splitSegments(data), Ref: ref}, true
	case "L":
		return Tag{Kind: TagLocation, Name: name, Tags: splitSegments(data)}, true
	case "E":
		return progressTag(TagEvent, name, data)
	case "Clock":
		return progressTag(TagClock, name, data)
	case "Track":
		return progressTag(TagTrack, name, data)
	case "Timer":
		return timerTag(name, data)
	case "Thread":
		state := strings.TrimSpace(data)
		if state == "" {
			state = defaultThreadState
		}
		return Tag{Kind: TagThread, Name: name, State: state}, true
	case "PC":
		return Tag{Kind: TagPC, Name: name, Changes: splitSegments(data)}, true
	}
	return Tag{}, false
}

func progressTag(kind TagKind, name, data string) (Tag, bool) {
	if m := progressPattern.FindStringSubmatch(joinNameData(name, data)); m != nil {
		current, max, ok := atoiPair(m[2], m[3])
		if !ok {
			return Tag{}, false
		}
		return Tag{Kind: kind, Name: strings.TrimSpace(m[1]), Current: current, Max: max}, true
	}
	if kind != TagClock {
		return Tag{}, false
	}
	m := bareProgressPattern.FindStringSubmatch(name)
	if m == nil {
		return Tag{}, false
	}
	current, max, ok := atoiPair(m[1], m[2])
	if !ok {
		return Tag{}, false
	}
	return Tag{Kind: kind, Name: nameOr(data, "Clock"), Current: current, Max: max}, true
}

func timerTag(name, data string) (Tag, bool) {
	if m := timerPattern.FindStringSubmatch(joinNameData(name, data)); m != nil {
		value, err := strconv.Atoi(m[2])
		if err != nil {
			return Tag{}, false
		}
		return Tag{Kind: TagTimer, Name: strings.TrimSpace(m[1]), Value: value}, true
	}
	m := bareTimerPattern.FindStringSubmatch(name)
	if m == nil {
		return Tag{}, false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return Tag{}, false
	}
	return Tag{Kind: TagTimer, Name: nameOr(data, "Timer"), Value: value}, true
}

func joinNameData(name, data string) string {
	data = strings.TrimSpace(data)
	if data == "" {
		return name
	}
	return name + " " + data
}

func nameOr(data, fallback string) string {
	if name := strings.TrimSpace(data); name != "" {
		return name
	}
	return fallback
}

func atoiPair(a, b string) (int, int, bool) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// splitSegments splits |-separated tag data, dropping empty segments.
func splitSegments(data string) []string {
	segments := []string{}
	for _, part := range strings.Split(data, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}
