package delta

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

type ChangeType string

const (
	ChangeHP        ChangeType = "hp"
	ChangeStat      ChangeType = "stat"
	ChangeStatus    ChangeType = "status"
	ChangeTagAdd    ChangeType = "tag_add"
	ChangeTagRemove ChangeType = "tag_remove"
)

// StateChange is one typed change parsed from a pc or npc tag segment.
type StateChange struct {
	Type ChangeType

	// hp, stat
	Delta int
	// stat
	Stat string
	// status; From is nil when the prior status is unknown
	From *string
	To   string
	// tag_add, tag_remove
	Tag string
}

func (c StateChange) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": c.Type}
	switch c.Type {
	case ChangeHP:
		out["delta"] = c.Delta
	case ChangeStat:
		out["stat"] = c.Stat
		out["delta"] = c.Delta
	case ChangeStatus:
		out["from"] = c.From
		out["to"] = c.To
	case ChangeTagAdd, ChangeTagRemove:
		out["tag"] = c.Tag
	}
	return json.Marshal(out)
}

func (c *StateChange) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  ChangeType `json:"type"`
		Delta int        `json:"delta"`
		Stat  string     `json:"stat"`
		From  *string    `json:"from"`
		To    string     `json:"to"`
		Tag   string     `json:"tag"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = StateChange(raw)
	return nil
}

var (
	hpPattern         = regexp.MustCompile(`^HP([+-])(\d+)$`)
	statPattern       = regexp.MustCompile(`^([A-Za-z]+)([+-])(\d+)$`)
	transitionPattern = regexp.MustCompile(`^(.+?)→(.+)$`)
)

var statusVocabulary = map[string]struct{}{
	"dead":          {},
	"unconscious":   {},
	"wounded":       {},
	"hostile":       {},
	"alert":         {},
	"distracted":    {},
	"prone":         {},
	"stunned":       {},
	"paralyzed":     {},
	"frightened":    {},
	"charmed":       {},
	"blinded":       {},
	"deafened":      {},
	"invisible":     {},
	"poisoned":      {},
	"grappled":      {},
	"restrained":    {},
	"incapacitated": {},
	"petrified":     {},
}

// ParseChange classifies a single change token. The second result is false
// when the token matches none of the known shapes.
func ParseChange(token string) (StateChange, bool) {
	if m := hpPattern.FindStringSubmatch(token); m != nil {
		if delta, ok := signedAmount(m[1], m[2]); ok {
			return StateChange{Type: ChangeHP, Delta: delta}, true
		}
	}
	if m := statPattern.FindStringSubmatch(token); m != nil && m[1] != "HP" {
		if delta, ok := signedAmount(m[2], m[3]); ok {
			return StateChange{Type: ChangeStat, Stat: m[1], Delta: delta}, true
		}
	}
	if m := transitionPattern.FindStringSubmatch(token); m != nil {
		from := m[1]
		return StateChange{Type: ChangeStatus, From: &from, To: m[2]}, true
	}
	if tag, ok := strings.CutPrefix(token, "+"); ok {
		return StateChange{Type: ChangeTagAdd, Tag: tag}, true
	}
	if tag, ok := strings.CutPrefix(token, "-"); ok {
		return StateChange{Type: ChangeTagRemove, Tag: tag}, true
	}
	if _, ok := statusVocabulary[strings.ToLower(token)]; ok {
		return StateChange{Type: ChangeStatus, To: token}, true
	}
	return StateChange{}, false
}

func signedAmount(sign, digits string) (int, bool) {
	amount, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if sign == "-" {
		amount = -amount
	}
	return amount, true
}
