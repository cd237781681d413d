package delta

import "sort"

// TotalHPChange sums the deltas of every hp change.
func TotalHPChange(changes []StateChange) int {
	total := 0
	for _, c := range changes {
		if c.Type == ChangeHP {
			total += c.Delta
		}
	}
	return total
}

// FinalStatus returns the target of the last status change, or nil when
// there is none.
func FinalStatus(changes []StateChange) *string {
	var status *string
	for _, c := range changes {
		if c.Type == ChangeStatus {
			to := c.To
			status = &to
		}
	}
	return status
}

// ActiveTags replays tag additions and removals in order.
func ActiveTags(changes []StateChange) map[string]struct{} {
	active := make(map[string]struct{})
	for _, c := range changes {
		switch c.Type {
		case ChangeTagAdd:
			active[c.Tag] = struct{}{}
		case ChangeTagRemove:
			delete(active, c.Tag)
		}
	}
	return active
}

// StatTotals sums stat deltas per stat name.
func StatTotals(changes []StateChange) map[string]int {
	totals := make(map[string]int)
	for _, c := range changes {
		if c.Type == ChangeStat {
			totals[c.Stat] += c.Delta
		}
	}
	return totals
}

type Summary struct {
	Entity     string         `json:"entity"`
	EntityType EntityType     `json:"entityType"`
	NetHP      int            `json:"netHP"`
	Status     *string        `json:"status"`
	ActiveTags []string       `json:"activeTags"`
	Stats      map[string]int `json:"stats"`
	Changes    int            `json:"changes"`
}

func Summarize(d EntityDelta) Summary {
	return Summary{
		Entity:     d.Entity,
		EntityType: d.EntityType,
		NetHP:      TotalHPChange(d.Changes),
		Status:     FinalStatus(d.Changes),
		ActiveTags: sortedKeys(ActiveTags(d.Changes)),
		Stats:      StatTotals(d.Changes),
		Changes:    len(d.Changes),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
