package mcp

import (
	"lonelog/internal/delta"
	"lonelog/internal/parser"
	"lonelog/internal/store"
)

type EntryOutput struct {
	Type    string      `json:"type"`
	Number  string      `json:"number,omitempty"`
	Context string      `json:"context,omitempty"`
	Text    string      `json:"text,omitempty"`
	Roll    string      `json:"roll,omitempty"`
	Result  string      `json:"result,omitempty"`
	Success *bool       `json:"success,omitempty"`
	Speaker string      `json:"speaker,omitempty"`
	Source  string      `json:"source,omitempty"`
	Tags    []TagOutput `json:"tags,omitempty"`
}

type TagOutput struct {
	Kind    string   `json:"kind"`
	Name    string   `json:"name"`
	Ref     bool     `json:"ref,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Changes []string `json:"changes,omitempty"`
	Current *int     `json:"current,omitempty"`
	Max     *int     `json:"max,omitempty"`
	Value   *int     `json:"value,omitempty"`
	State   string   `json:"state,omitempty"`
}

type StateChangeOutput struct {
	Type  string  `json:"type"`
	Delta *int    `json:"delta,omitempty"`
	Stat  string  `json:"stat,omitempty"`
	From  *string `json:"from,omitempty"`
	To    string  `json:"to,omitempty"`
	Tag   string  `json:"tag,omitempty"`
}

type EntityDeltaOutput struct {
	Entity     string              `json:"entity"`
	EntityType string              `json:"entity_type"`
	Changes    []StateChangeOutput `json:"changes"`
}

type ProgressOutput struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Current    int    `json:"current"`
	Max        *int   `json:"max,omitempty"`
	Campaign   string `json:"campaign,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
	Session    int    `json:"session,omitempty"`
}

type ThreadOutput struct {
	Name       string `json:"name"`
	To         string `json:"to"`
	Campaign   string `json:"campaign,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
	Session    int    `json:"session,omitempty"`
}

type SummaryOutput struct {
	Entity     string         `json:"entity"`
	EntityType string         `json:"entity_type"`
	NetHP      int            `json:"net_hp"`
	Status     string         `json:"status,omitempty"`
	ActiveTags []string       `json:"active_tags"`
	Stats      map[string]int `json:"stats"`
	Changes    int            `json:"changes"`
}

type EntitySummaryOutput struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
	Campaign   string `json:"campaign"`
	Logs       int    `json:"logs"`
	Changes    int    `json:"changes"`
}

func entryOutput(e parser.Entry) EntryOutput {
	out := EntryOutput{
		Type:    string(e.Type),
		Number:  e.Number,
		Context: e.Context,
		Text:    e.Text,
		Roll:    e.Roll,
		Result:  e.Result,
		Success: e.Success,
		Speaker: e.Speaker,
		Source:  e.Source,
	}
	for _, tag := range e.Tags {
		out.Tags = append(out.Tags, tagOutput(tag))
	}
	return out
}

func tagOutput(t parser.Tag) TagOutput {
	out := TagOutput{Kind: string(t.Kind), Name: t.Name}
	switch t.Kind {
	case parser.TagNPC:
		out.Tags = append([]string{}, t.Tags...)
		out.Ref = t.Ref
	case parser.TagLocation:
		out.Tags = append([]string{}, t.Tags...)
	case parser.TagEvent, parser.TagClock, parser.TagTrack:
		current, limit := t.Current, t.Max
		out.Current = &current
		out.Max = &limit
	case parser.TagTimer:
		value := t.Value
		out.Value = &value
	case parser.TagThread:
		out.State = t.State
	case parser.TagPC:
		out.Changes = append([]string{}, t.Changes...)
	}
	return out
}

func stateChangeOutput(c delta.StateChange) StateChangeOutput {
	out := StateChangeOutput{Type: string(c.Type)}
	switch c.Type {
	case delta.ChangeHP:
		d := c.Delta
		out.Delta = &d
	case delta.ChangeStat:
		d := c.Delta
		out.Delta = &d
		out.Stat = c.Stat
	case delta.ChangeStatus:
		out.From = c.From
		out.To = c.To
	case delta.ChangeTagAdd, delta.ChangeTagRemove:
		out.Tag = c.Tag
	}
	return out
}

func entityDeltaOutput(d delta.EntityDelta) EntityDeltaOutput {
	out := EntityDeltaOutput{
		Entity:     d.Entity,
		EntityType: string(d.EntityType),
		Changes:    make([]StateChangeOutput, 0, len(d.Changes)),
	}
	for _, c := range d.Changes {
		out.Changes = append(out.Changes, stateChangeOutput(c))
	}
	return out
}

func progressOutput(p delta.ProgressChange) ProgressOutput {
	return ProgressOutput{
		Name:    p.Name,
		Kind:    string(p.Kind),
		Current: p.Current,
		Max:     p.Max,
	}
}

func progressRecordOutput(r store.ProgressRecord) ProgressOutput {
	out := progressOutput(r.ProgressChange)
	out.Campaign = r.Campaign
	out.SourceFile = r.SourceFile
	out.Session = r.Session
	return out
}

func threadRecordOutput(r store.ThreadRecord) ThreadOutput {
	return ThreadOutput{
		Name:       r.Name,
		To:         r.To,
		Campaign:   r.Campaign,
		SourceFile: r.SourceFile,
		Session:    r.Session,
	}
}

func summaryOutput(s delta.Summary) SummaryOutput {
	out := SummaryOutput{
		Entity:     s.Entity,
		EntityType: string(s.EntityType),
		NetHP:      s.NetHP,
		ActiveTags: append([]string{}, s.ActiveTags...),
		Stats:      s.Stats,
		Changes:    s.Changes,
	}
	if s.Status != nil {
		out.Status = *s.Status
	}
	return out
}

func entitySummaryOutput(s store.EntitySummary) EntitySummaryOutput {
	return EntitySummaryOutput{
		Name:       s.Name,
		EntityType: string(s.EntityType),
		Campaign:   s.Campaign,
		Logs:       s.Logs,
		Changes:    s.Changes,
	}
}
