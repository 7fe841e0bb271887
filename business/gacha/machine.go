package gacha

import "gachaVault/domain"

// bannerMachine folds one category's ordered sub-stream into running
// pity/guarantee state. apply returns the annotation for rare pulls
// (ok=false for other tiers). Machines are created fresh for every replay;
// nothing survives between calls.
type bannerMachine interface {
	apply(ev domain.PullEvent) (ann domain.PullAnnotation, ok bool)
	snapshot() domain.BannerSnapshot
}

// newMachines builds one machine per category. The switch is exhaustive over
// the closed category set: adding a category without a ruleset here is a
// programming error surfaced immediately.
func newMachines(cfg Config) map[domain.BannerCategory]bannerMachine {
	machines := make(map[domain.BannerCategory]bannerMachine, len(domain.AllBannerCategories))
	for _, cat := range domain.AllBannerCategories {
		switch cat {
		case domain.BannerCharacter:
			machines[cat] = &rateUpMachine{category: cat, trackStreak: true, threshold: cfg.EscalationThreshold}
		case domain.BannerChronicled:
			machines[cat] = &rateUpMachine{category: cat}
		case domain.BannerWeapon:
			machines[cat] = &weaponMachine{category: cat, maxPoints: cfg.BonusPointsCap, override: cfg.TrackedTarget}
		case domain.BannerStandard:
			machines[cat] = &flatMachine{category: cat}
		default:
			panic("gacha: no ruleset for banner category " + string(cat))
		}
	}
	return machines
}

// rateUpMachine implements the character-style ruleset: a rare pull either
// hits the featured rate-up (win) or misses it (loss), and a loss forces the
// next rare pull to win. With trackStreak it also keeps the radiance streak:
// consecutive genuine losses, cleared only by a genuine win. A forced win
// resolves nothing voluntarily, so it leaves the streak alone.
type rateUpMachine struct {
	category    domain.BannerCategory
	trackStreak bool
	threshold   int

	pity       int
	totalPulls int
	guaranteed bool
	lossStreak int
}

func (m *rateUpMachine) apply(ev domain.PullEvent) (domain.PullAnnotation, bool) {
	m.totalPulls++
	if ev.Rarity != domain.RarityRare {
		m.pity++
		return domain.PullAnnotation{}, false
	}

	ann := domain.PullAnnotation{
		EventID:            ev.ID,
		Category:           m.category,
		PityCount:          m.pity + 1,
		GuaranteeActive:    m.guaranteed,
		EscalationEligible: m.trackStreak && m.lossStreak >= m.threshold,
	}

	switch {
	case m.guaranteed:
		// Forced resolution: always a win, regardless of the recorded
		// featured flag. The streak is untouched.
		m.guaranteed = false
		ann.Outcome = domain.OutcomeWin
	case ev.Featured():
		m.lossStreak = 0
		ann.Outcome = domain.OutcomeWin
	default:
		m.lossStreak++
		m.guaranteed = true
		ann.Outcome = domain.OutcomeLoss
	}

	m.pity = 0
	return ann, true
}

func (m *rateUpMachine) snapshot() domain.BannerSnapshot {
	snap := domain.BannerSnapshot{
		Category:   m.category,
		Pity:       m.pity,
		TotalPulls: m.totalPulls,
		Guaranteed: m.guaranteed,
	}
	if m.trackStreak {
		snap.LossStreak = m.lossStreak
		snap.EscalationEligible = m.lossStreak >= m.threshold
	}
	return snap
}

// weaponMachine implements the fate-point ruleset. The tracked target follows
// the events (last write wins) unless the caller overrides it. With a target
// set, every rare pull that neither was forced nor hit the target banks one
// point up to the cap; at the cap the next rare pull is a forced hit and the
// points are spent. Without a target nothing accumulates.
type weaponMachine struct {
	category  domain.BannerCategory
	maxPoints int
	override  string

	pity        int
	totalPulls  int
	bonusPoints int
	target      string
}

func (m *weaponMachine) effectiveTarget() string {
	if m.override != "" {
		return m.override
	}
	return m.target
}

func (m *weaponMachine) apply(ev domain.PullEvent) (domain.PullAnnotation, bool) {
	m.totalPulls++
	if ev.TrackedTarget != "" {
		m.target = ev.TrackedTarget
	}
	if ev.Rarity != domain.RarityRare {
		m.pity++
		return domain.PullAnnotation{}, false
	}

	guaranteed := m.bonusPoints >= m.maxPoints
	ann := domain.PullAnnotation{
		EventID:         ev.ID,
		Category:        m.category,
		PityCount:       m.pity + 1,
		GuaranteeActive: guaranteed,
	}

	if target := m.effectiveTarget(); target != "" {
		if guaranteed || ev.ItemKey == target {
			m.bonusPoints = 0
		} else if m.bonusPoints < m.maxPoints {
			m.bonusPoints++
		}
	} else {
		m.bonusPoints = 0
	}

	m.pity = 0
	return ann, true
}

func (m *weaponMachine) snapshot() domain.BannerSnapshot {
	return domain.BannerSnapshot{
		Category:      m.category,
		Pity:          m.pity,
		TotalPulls:    m.totalPulls,
		Guaranteed:    m.bonusPoints >= m.maxPoints,
		BonusPoints:   m.bonusPoints,
		TrackedTarget: m.effectiveTarget(),
	}
}

// flatMachine implements the standard-banner ruleset: a pity counter and
// nothing else.
type flatMachine struct {
	category   domain.BannerCategory
	pity       int
	totalPulls int
}

func (m *flatMachine) apply(ev domain.PullEvent) (domain.PullAnnotation, bool) {
	m.totalPulls++
	if ev.Rarity != domain.RarityRare {
		m.pity++
		return domain.PullAnnotation{}, false
	}
	ann := domain.PullAnnotation{
		EventID:   ev.ID,
		Category:  m.category,
		PityCount: m.pity + 1,
	}
	m.pity = 0
	return ann, true
}

func (m *flatMachine) snapshot() domain.BannerSnapshot {
	return domain.BannerSnapshot{
		Category:   m.category,
		Pity:       m.pity,
		TotalPulls: m.totalPulls,
	}
}
