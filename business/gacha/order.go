package gacha

import (
	"errors"
	"fmt"
	"sort"

	"gachaVault/domain"
)

var (
	ErrMissingEventID    = errors.New("pull event is missing an id")
	ErrMissingExternalID = errors.New("pull event is missing an external id")
	ErrMissingItemKey    = errors.New("pull event is missing an item key")
	ErrMissingOccurredAt = errors.New("pull event is missing an occurred_at timestamp")
	ErrUnknownCategory   = errors.New("unknown banner category")
	ErrUnknownRarity     = errors.New("unknown rarity")
	ErrUnknownItemType   = errors.New("unknown item type")
	ErrDuplicateExternal = errors.New("duplicate external id in event log")
)

// validateEvents checks every event against the closed sets before any state
// machine runs. One malformed event aborts the whole replay: silently
// skipping or defaulting would shift every downstream pity count without any
// signal to the caller.
func validateEvents(events []domain.PullEvent) error {
	seen := make(map[string]string, len(events))
	for i, ev := range events {
		if ev.ID == "" {
			return fmt.Errorf("event[%d]: %w", i, ErrMissingEventID)
		}
		if ev.ExternalID == "" {
			return fmt.Errorf("event %s: %w", ev.ID, ErrMissingExternalID)
		}
		if ev.ItemKey == "" {
			return fmt.Errorf("event %s: %w", ev.ID, ErrMissingItemKey)
		}
		if ev.OccurredAt.IsZero() {
			return fmt.Errorf("event %s: %w", ev.ID, ErrMissingOccurredAt)
		}
		if !ev.BannerCategory.IsValid() {
			return fmt.Errorf("event %s: %w: %q", ev.ID, ErrUnknownCategory, ev.BannerCategory)
		}
		if !ev.Rarity.IsValid() {
			return fmt.Errorf("event %s: %w: %q", ev.ID, ErrUnknownRarity, ev.Rarity)
		}
		if !ev.ItemType.IsValid() {
			return fmt.Errorf("event %s: %w: %q", ev.ID, ErrUnknownItemType, ev.ItemType)
		}
		if prev, ok := seen[ev.ExternalID]; ok {
			return fmt.Errorf("events %s and %s: %w: %q", prev, ev.ID, ErrDuplicateExternal, ev.ExternalID)
		}
		seen[ev.ExternalID] = ev.ID
	}
	return nil
}

// orderEvents validates and returns a chronologically ordered copy of the
// log. The order is strict and total, keyed by (OccurredAt, IngestedAt, ID),
// so the result depends only on the event set, never on arrival order. The
// input slice is left untouched.
func orderEvents(events []domain.PullEvent) ([]domain.PullEvent, error) {
	if err := validateEvents(events); err != nil {
		return nil, err
	}
	ordered := make([]domain.PullEvent, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool {
		return lessEvent(ordered[i], ordered[j])
	})
	return ordered, nil
}

func lessEvent(a, b domain.PullEvent) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.Before(b.OccurredAt)
	}
	if !a.IngestedAt.Equal(b.IngestedAt) {
		return a.IngestedAt.Before(b.IngestedAt)
	}
	return a.ID < b.ID
}
