package delta

import (
	"lonelog/internal/parser"
)

type EntityType string

const (
	EntityPC  EntityType = "pc"
	EntityNPC EntityType = "npc"
)

type EntityDelta struct {
	Entity     string        `json:"entity"`
	EntityType EntityType    `json:"entityType"`
	Changes    []StateChange `json:"changes"`
}

type ProgressKind string

const (
	ProgressEvent ProgressKind = "event"
	ProgressClock ProgressKind = "clock"
	ProgressTrack ProgressKind = "track"
	ProgressTimer ProgressKind = "timer"
)

// ProgressChange records one tracker mention. Max is nil for timers.
type ProgressChange struct {
	Name    string       `json:"name"`
	Kind    ProgressKind `json:"kind"`
	Current int          `json:"current"`
	Max     *int         `json:"max,omitempty"`
}

// ThreadChange records a thread mention. From is always nil: earlier thread
// states are not tracked.
type ThreadChange struct {
	Name string  `json:"name"`
	From *string `json:"from"`
	To   string  `json:"to"`
}

type Result struct {
	EntityDeltas    []EntityDelta    `json:"entityDeltas"`
	ProgressChanges []ProgressChange `json:"progressChanges"`
	ThreadChanges   []ThreadChange   `json:"threadChanges"`
}

// Extract walks entries and collects the state changes carried by the tags
// of consequence entries. Entity deltas come back in first-mention order.
func Extract(entries []parser.Entry) Result {
	acc := NewAccumulator()
	result := Result{
		ProgressChanges: []ProgressChange{},
		ThreadChanges:   []ThreadChange{},
	}

	for _, entry := range entries {
		if entry.Type != parser.EntryConsequence {
			continue
		}
		for _, tag := range entry.Tags {
			switch tag.Kind {
			case parser.TagPC:
				acc.Append(EntityPC, tag.Name, parseChanges(tag.Changes)...)
			case parser.TagNPC:
				acc.Append(EntityNPC, tag.Name, parseChanges(tag.Tags)...)
			case parser.TagClock, parser.TagTrack, parser.TagEvent:
				limit := tag.Max
				result.ProgressChanges = append(result.ProgressChanges, ProgressChange{
					Name:    tag.Name,
					Kind:    ProgressKind(tag.Kind),
					Current: tag.Current,
					Max:     &limit,
				})
			case parser.TagTimer:
				result.ProgressChanges = append(result.ProgressChanges, ProgressChange{
					Name:    tag.Name,
					Kind:    ProgressTimer,
					Current: tag.Value,
				})
			case parser.TagThread:
				result.ThreadChanges = append(result.ThreadChanges, ThreadChange{
					Name: tag.Name,
					To:   tag.State,
				})
			case parser.TagLocation:
			}
		}
	}

	result.EntityDeltas = acc.Deltas()
	return result
}

func parseChanges(tokens []string) []StateChange {
	changes := make([]StateChange, 0, len(tokens))
	for _, token := range tokens {
		if change, ok := ParseChange(token); ok {
			changes = append(changes, change)
		}
	}
	return changes
}
