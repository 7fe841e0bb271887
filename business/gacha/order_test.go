package gacha

import (
	"errors"
	"testing"
	"time"

	"gachaVault/domain"
)

func TestOrderEventsStrictTotalOrder(t *testing.T) {
	at := testEpoch
	events := []domain.PullEvent{
		{ID: "b", ExternalID: "x2", BannerCategory: domain.BannerStandard, ItemType: domain.ItemCharacter, ItemKey: "k", Rarity: domain.RarityCommon, OccurredAt: at, IngestedAt: at.Add(time.Second)},
		{ID: "c", ExternalID: "x3", BannerCategory: domain.BannerStandard, ItemType: domain.ItemCharacter, ItemKey: "k", Rarity: domain.RarityCommon, OccurredAt: at, IngestedAt: at},
		{ID: "a", ExternalID: "x1", BannerCategory: domain.BannerStandard, ItemType: domain.ItemCharacter, ItemKey: "k", Rarity: domain.RarityCommon, OccurredAt: at, IngestedAt: at},
		{ID: "d", ExternalID: "x4", BannerCategory: domain.BannerStandard, ItemType: domain.ItemCharacter, ItemKey: "k", Rarity: domain.RarityCommon, OccurredAt: at.Add(-time.Hour), IngestedAt: at.Add(time.Hour)},
	}

	ordered, err := orderEvents(events)
	if err != nil {
		t.Fatal(err)
	}

	// occurred_at first, then ingested_at, then id.
	want := []string{"d", "a", "c", "b"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, ordered[i].ID, id)
		}
	}
}

func TestOrderEventsDoesNotMutateInput(t *testing.T) {
	events := buildLog(
		pullSpec{cat: domain.BannerStandard, rarity: domain.RarityCommon},
		pullSpec{cat: domain.BannerStandard, rarity: domain.RarityCommon},
	)
	// reverse declared order so sorting has work to do
	events[0], events[1] = events[1], events[0]
	first, second := events[0].ID, events[1].ID

	if _, err := orderEvents(events); err != nil {
		t.Fatal(err)
	}
	if events[0].ID != first || events[1].ID != second {
		t.Fatalf("input slice was reordered in place")
	}
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	events := buildLog(pullSpec{cat: domain.BannerStandard, rarity: domain.RarityCommon})
	events[0].BannerCategory = "collab"

	_, err := orderEvents(events)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("got %v, want ErrUnknownCategory", err)
	}
}

func TestValidateRejectsUnknownRarity(t *testing.T) {
	events := buildLog(pullSpec{cat: domain.BannerStandard, rarity: "legendary"})

	_, err := orderEvents(events)
	if !errors.Is(err, ErrUnknownRarity) {
		t.Fatalf("got %v, want ErrUnknownRarity", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	base := buildLog(pullSpec{cat: domain.BannerStandard, rarity: domain.RarityCommon})[0]

	cases := []struct {
		name   string
		mutate func(*domain.PullEvent)
		want   error
	}{
		{"missing id", func(ev *domain.PullEvent) { ev.ID = "" }, ErrMissingEventID},
		{"missing external id", func(ev *domain.PullEvent) { ev.ExternalID = "" }, ErrMissingExternalID},
		{"missing item key", func(ev *domain.PullEvent) { ev.ItemKey = "" }, ErrMissingItemKey},
		{"missing occurred_at", func(ev *domain.PullEvent) { ev.OccurredAt = time.Time{} }, ErrMissingOccurredAt},
		{"bad item type", func(ev *domain.PullEvent) { ev.ItemType = "sticker" }, ErrUnknownItemType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := base
			tc.mutate(&ev)
			if _, err := orderEvents([]domain.PullEvent{ev}); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateRejectsDuplicateExternalID(t *testing.T) {
	events := buildLog(
		pullSpec{cat: domain.BannerStandard, rarity: domain.RarityCommon},
		pullSpec{cat: domain.BannerStandard, rarity: domain.RarityCommon},
	)
	events[1].ExternalID = events[0].ExternalID

	_, err := orderEvents(events)
	if !errors.Is(err, ErrDuplicateExternal) {
		t.Fatalf("got %v, want ErrDuplicateExternal", err)
	}
}
