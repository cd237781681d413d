package parser

import "encoding/json"

type EntryType string

const (
	EntryScene          EntryType = "scene"
	EntryAction         EntryType = "action"
	EntryOracleQuestion EntryType = "oracle_question"
	EntryOracleAnswer   EntryType = "oracle_answer"
	EntryRoll           EntryType = "roll"
	EntryConsequence    EntryType = "consequence"
	EntryDialogue       EntryType = "dialogue"
	EntryTableRoll      EntryType = "table_roll"
	EntryGenerator      EntryType = "generator"
	EntryMetaNote       EntryType = "meta_note"
	EntryNarrative      EntryType = "narrative"
)

// Entry is one decoded log line. Type selects which of the remaining
// fields are meaningful; the others stay at their zero value.
type Entry struct {
	Type EntryType

	// scene
	Number  string
	Context string

	// action, oracle_question, oracle_answer, consequence, dialogue,
	// meta_note, narrative
	Text string

	// oracle_answer (optional), roll, table_roll
	Roll string
	// roll, table_roll, generator
	Result string
	// roll; nil when the result carries no outcome keyword
	Success *bool

	// dialogue
	Speaker string
	// table_roll, generator
	Source string

	// consequence
	Tags []Tag
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": e.Type}
	switch e.Type {
	case EntryScene:
		out["number"] = e.Number
		out["context"] = e.Context
	case EntryOracleAnswer:
		out["text"] = e.Text
		if e.Roll != "" {
			out["roll"] = e.Roll
		}
	case EntryRoll:
		out["roll"] = e.Roll
		out["result"] = e.Result
		if e.Success != nil {
			out["success"] = *e.Success
		}
	case EntryConsequence:
		tags := e.Tags
		if tags == nil {
			tags = []Tag{}
		}
		out["text"] = e.Text
		out["tags"] = tags
	case EntryDialogue:
		out["speaker"] = e.Speaker
		out["text"] = e.Text
	case EntryTableRoll:
		out["source"] = e.Source
		out["roll"] = e.Roll
		out["result"] = e.Result
	case EntryGenerator:
		out["source"] = e.Source
		out["result"] = e.Result
	default:
		out["text"] = e.Text
	}
	return json.Marshal(out)
}

type TagKind string

const (
	TagNPC      TagKind = "npc"
	TagLocation TagKind = "location"
	TagEvent    TagKind = "event"
	TagClock    TagKind = "clock"
	TagTrack    TagKind = "track"
	TagTimer    TagKind = "timer"
	TagThread   TagKind = "thread"
	TagPC       TagKind = "pc"
)

// Tag is a persistent tag found inside a consequence line.
type Tag struct {
	Kind TagKind
	Name string

	// npc, location
	Tags []string
	// npc: written as [#N:...]
	Ref bool

	// event, clock, track
	Current int
	Max     int

	// timer
	Value int

	// thread
	State string

	// pc
	Changes []string
}

func (t Tag) MarshalJSON() ([]byte, error) {
	out := map[string]any{"kind": t.Kind, "name": t.Name}
	switch t.Kind {
	case TagNPC:
		out["tags"] = nonNil(t.Tags)
		out["ref"] = t.Ref
	case TagLocation:
		out["tags"] = nonNil(t.Tags)
	case TagEvent, TagClock, TagTrack:
		out["current"] = t.Current
		out["max"] = t.Max
	case TagTimer:
		out["value"] = t.Value
	case TagThread:
		out["state"] = t.State
	case TagPC:
		out["changes"] = nonNil(t.Changes)
	}
	return json.Marshal(out)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
