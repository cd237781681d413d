package store

import (
	"context"
	"fmt"
	"sort"

	"lonelog/internal/delta"
)

// EntityStates merges every stored delta for name and summarizes it, one
// summary per entity type. Stored names match case-insensitively, so each
// type is reported under the first spelling seen in session order.
func EntityStates(ctx context.Context, s Store, campaign, entityType, name string) ([]delta.Summary, error) {
	deltas, err := s.GetEntityDeltas(ctx, campaign, entityType, name)
	if err != nil {
		return nil, fmt.Errorf("get entity deltas: %w", err)
	}
	if len(deltas) == 0 {
		return nil, fmt.Errorf("entity %q: %w", name, ErrNotFound)
	}

	spelling := make(map[delta.EntityType]string)
	for i := range deltas {
		first, ok := spelling[deltas[i].EntityType]
		if !ok {
			spelling[deltas[i].EntityType] = deltas[i].Entity
			continue
		}
		deltas[i].Entity = first
	}

	merged := delta.Accumulate(deltas)
	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]delta.Summary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, delta.Summarize(merged[key]))
	}
	return summaries, nil
}
