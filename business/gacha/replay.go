package gacha

import (
	"fmt"

	"gachaVault/domain"
)

// ReplayResult is everything one replay derives from the event log.
type ReplayResult struct {
	StateByCategory      map[domain.BannerCategory]domain.BannerSnapshot `json:"state_by_category"`
	AnnotationsByEventID map[string]domain.PullAnnotation                `json:"annotations_by_event_id"`
}

// Replay folds the whole event log through the per-category state machines
// and returns the final state of every banner plus one annotation per rare
// pull. It is a pure function of (events, cfg): accumulators are created
// fresh on every call, the input is never mutated, and the same event set
// always produces the same result regardless of arrival order.
//
// Replay is all-or-nothing: a single malformed or duplicated event fails the
// whole call rather than silently corrupting downstream pity counts.
func Replay(events []domain.PullEvent, cfg Config) (ReplayResult, error) {
	ordered, err := orderEvents(events)
	if err != nil {
		return ReplayResult{}, err
	}
	return replayOrdered(ordered, cfg), nil
}

// replayOrdered runs the single dispatch pass. Callers must hand it an
// already validated, ordered log.
func replayOrdered(ordered []domain.PullEvent, cfg Config) ReplayResult {
	machines := newMachines(cfg)
	result := ReplayResult{
		StateByCategory:      make(map[domain.BannerCategory]domain.BannerSnapshot, len(machines)),
		AnnotationsByEventID: make(map[string]domain.PullAnnotation),
	}
	for _, ev := range ordered {
		if ann, ok := machines[ev.BannerCategory].apply(ev); ok {
			result.AnnotationsByEventID[ev.ID] = ann
		}
	}
	for cat, m := range machines {
		result.StateByCategory[cat] = m.snapshot()
	}
	return result
}

// CurrentState returns the final per-banner state for a log. It is a thin
// wrapper over Replay, so "where do I stand" queries can never drift from a
// full replay: there is no cheaper incremental path.
func CurrentState(events []domain.PullEvent, cfg Config) (map[domain.BannerCategory]domain.BannerSnapshot, error) {
	result, err := Replay(events, cfg)
	if err != nil {
		return nil, err
	}
	return result.StateByCategory, nil
}

// CurrentStateForCategory returns the final state of one banner category.
func CurrentStateForCategory(events []domain.PullEvent, cfg Config, category domain.BannerCategory) (domain.BannerSnapshot, error) {
	if !category.IsValid() {
		return domain.BannerSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	states, err := CurrentState(events, cfg)
	if err != nil {
		return domain.BannerSnapshot{}, err
	}
	return states[category], nil
}
