package domain

// PullOutcome is the resolved result of a rare pull against the rate-up
// mechanic. Empty means not applicable (weapon/standard banners).
type PullOutcome string

const (
	OutcomeWin  PullOutcome = "win"
	OutcomeLoss PullOutcome = "loss"
)

// BannerSnapshot is the current bookkeeping state of one banner category,
// fully recomputed from the event log on every query. Only the fields the
// category's ruleset uses are populated.
type BannerSnapshot struct {
	Category   BannerCategory `json:"category"`
	Pity       int            `json:"pity"`
	TotalPulls int            `json:"total_pulls"`
	// Guaranteed means the next rare pull is forced to the rate-up item
	// (character/chronicled) or to the tracked target (weapon at cap).
	Guaranteed bool `json:"guaranteed,omitempty"`
	// LossStreak counts consecutive genuine 50/50 losses (character only).
	LossStreak int `json:"loss_streak,omitempty"`
	// EscalationEligible means the loss streak has reached the radiance
	// threshold, so the next genuine resolution is escalation-eligible.
	EscalationEligible bool `json:"escalation_eligible,omitempty"`
	// BonusPoints are accumulated fate points (weapon only).
	BonusPoints int `json:"bonus_points,omitempty"`
	// TrackedTarget is the item fate points are banking toward (weapon only).
	TrackedTarget string `json:"tracked_target,omitempty"`
}

// PullAnnotation records the derived facts for one rare pull at the moment it
// was drawn.
type PullAnnotation struct {
	EventID  string         `json:"event_id"`
	Category BannerCategory `json:"category"`
	// PityCount is the number of pulls since the previous rare, inclusive
	// of this one.
	PityCount int `json:"pity_count"`
	// GuaranteeActive is the guarantee flag entering the draw. When true
	// the outcome was forced and carries no 50/50 information.
	GuaranteeActive bool        `json:"guarantee_active"`
	Outcome         PullOutcome `json:"outcome,omitempty"`
	// EscalationEligible means the loss streak had already reached the
	// radiance threshold before this draw. Informational: the outcome
	// still derives from the recorded IsFeatured field.
	EscalationEligible bool `json:"escalation_eligible,omitempty"`
}

// AnnotatedPull pairs a rare pull with its replay annotation.
type AnnotatedPull struct {
	Event      PullEvent      `json:"event"`
	Annotation PullAnnotation `json:"annotation"`
}

// RarityStat is the count and percentage share of one rarity tier.
type RarityStat struct {
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// BannerStats are the descriptive statistics for one banner category.
type BannerStats struct {
	Category   BannerCategory        `json:"category"`
	TotalPulls int                   `json:"total_pulls"`
	Rarities   map[Rarity]RarityStat `json:"rarities"`
	// AvgRarePity is the mean pity cost across rare pulls.
	AvgRarePity float64 `json:"avg_rare_pity"`
	// AvgUncommonPity is the mean cost across uncommon pulls; the uncommon
	// counter resets on either an uncommon or a rare pull.
	AvgUncommonPity float64 `json:"avg_uncommon_pity"`
	// Win/loss tally against the rate-up mechanic, counting only genuine
	// (non-forced) resolutions. Present only when HasRateUp.
	HasRateUp bool    `json:"has_rate_up"`
	WinCount  int     `json:"win_count,omitempty"`
	LossCount int     `json:"loss_count,omitempty"`
	WinRate   float64 `json:"win_rate,omitempty"`
}
