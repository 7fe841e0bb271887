package gacha

import (
	"fmt"

	"gachaVault/domain"
)

// ComputeStats derives the descriptive statistics for one banner category.
// The win/loss tally is taken from a full forward replay and counts only
// genuine resolutions: a forced win says nothing about the underlying 50/50,
// and counting it would overstate the true win rate. There is no independent
// backward-scan implementation to drift from.
func ComputeStats(events []domain.PullEvent, category domain.BannerCategory, cfg Config) (domain.BannerStats, error) {
	if !category.IsValid() {
		return domain.BannerStats{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	ordered, err := orderEvents(events)
	if err != nil {
		return domain.BannerStats{}, err
	}
	replayed := replayOrdered(ordered, cfg)

	stats := domain.BannerStats{
		Category:  category,
		HasRateUp: category.HasRateUp(),
		Rarities: map[domain.Rarity]domain.RarityStat{
			domain.RarityCommon:   {},
			domain.RarityUncommon: {},
			domain.RarityRare:     {},
		},
	}

	var rarePitySum, rareCount int
	var uncommonPitySum, uncommonCount int
	// The uncommon counter resets on either an uncommon or a rare pull,
	// unlike the rare pity counter which only rare pulls reset.
	uncommonRun := 0

	for _, ev := range ordered {
		if ev.BannerCategory != category {
			continue
		}
		stats.TotalPulls++
		tier := stats.Rarities[ev.Rarity]
		tier.Count++
		stats.Rarities[ev.Rarity] = tier

		switch ev.Rarity {
		case domain.RarityRare:
			ann := replayed.AnnotationsByEventID[ev.ID]
			rarePitySum += ann.PityCount
			rareCount++
			uncommonRun = 0
			if stats.HasRateUp && !ann.GuaranteeActive {
				if ann.Outcome == domain.OutcomeWin {
					stats.WinCount++
				} else {
					stats.LossCount++
				}
			}
		case domain.RarityUncommon:
			uncommonPitySum += uncommonRun + 1
			uncommonCount++
			uncommonRun = 0
		default:
			uncommonRun++
		}
	}

	if stats.TotalPulls > 0 {
		for rarity, tier := range stats.Rarities {
			tier.Rate = percent(tier.Count, stats.TotalPulls)
			stats.Rarities[rarity] = tier
		}
	}
	if rareCount > 0 {
		stats.AvgRarePity = float64(rarePitySum) / float64(rareCount)
	}
	if uncommonCount > 0 {
		stats.AvgUncommonPity = float64(uncommonPitySum) / float64(uncommonCount)
	}
	if resolved := stats.WinCount + stats.LossCount; resolved > 0 {
		stats.WinRate = percent(stats.WinCount, resolved)
	}
	return stats, nil
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}

// RareHistory returns the category's rare pulls in chronological order, each
// paired with its replay annotation.
func RareHistory(events []domain.PullEvent, category domain.BannerCategory, cfg Config) ([]domain.AnnotatedPull, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	ordered, err := orderEvents(events)
	if err != nil {
		return nil, err
	}
	replayed := replayOrdered(ordered, cfg)

	history := make([]domain.AnnotatedPull, 0)
	for _, ev := range ordered {
		if ev.BannerCategory != category || ev.Rarity != domain.RarityRare {
			continue
		}
		history = append(history, domain.AnnotatedPull{
			Event:      ev,
			Annotation: replayed.AnnotationsByEventID[ev.ID],
		})
	}
	return history, nil
}
