package gacha

import (
	"fmt"
	"time"

	"gachaVault/domain"
)

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// pullSpec is a shorthand for building test logs; ids, external ids and
// timestamps are derived from the position in the slice so the intended
// chronological order is simply the declaration order.
type pullSpec struct {
	cat      domain.BannerCategory
	rarity   domain.Rarity
	item     string
	featured *bool
	target   string
}

func boolPtr(b bool) *bool { return &b }

func buildLog(specs ...pullSpec) []domain.PullEvent {
	events := make([]domain.PullEvent, len(specs))
	for i, sp := range specs {
		item := sp.item
		if item == "" {
			item = "filler-item"
		}
		itemType := domain.ItemCharacter
		if sp.cat == domain.BannerWeapon {
			itemType = domain.ItemEquipment
		}
		events[i] = domain.PullEvent{
			ID:             fmt.Sprintf("ev-%03d", i+1),
			UserID:         1,
			ExternalID:     fmt.Sprintf("ext-%03d", i+1),
			BannerCategory: sp.cat,
			ItemType:       itemType,
			ItemKey:        item,
			Rarity:         sp.rarity,
			IsFeatured:     sp.featured,
			TrackedTarget:  sp.target,
			OccurredAt:     testEpoch.Add(time.Duration(i) * time.Minute),
			IngestedAt:     testEpoch,
		}
	}
	return events
}

func commons(cat domain.BannerCategory, n int) []pullSpec {
	specs := make([]pullSpec, n)
	for i := range specs {
		specs[i] = pullSpec{cat: cat, rarity: domain.RarityCommon}
	}
	return specs
}

func rare(cat domain.BannerCategory, featured bool) pullSpec {
	return pullSpec{cat: cat, rarity: domain.RarityRare, featured: boolPtr(featured)}
}
