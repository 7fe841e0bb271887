package gacha

import (
	"testing"

	"gachaVault/domain"
)

func replayLog(t *testing.T, cfg Config, specs ...pullSpec) (ReplayResult, []domain.PullEvent) {
	t.Helper()
	events := buildLog(specs...)
	result, err := Replay(events, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return result, events
}

func annotationAt(t *testing.T, result ReplayResult, events []domain.PullEvent, idx int) domain.PullAnnotation {
	t.Helper()
	ann, ok := result.AnnotationsByEventID[events[idx].ID]
	if !ok {
		t.Fatalf("no annotation for event %s", events[idx].ID)
	}
	return ann
}

// Three commons, then a rare that loses the 50/50.
func TestCharacterGenuineLoss(t *testing.T) {
	specs := append(commons(domain.BannerCharacter, 3), rare(domain.BannerCharacter, false))
	result, events := replayLog(t, DefaultConfig(), specs...)

	state := result.StateByCategory[domain.BannerCharacter]
	if state.Pity != 0 {
		t.Fatalf("pity = %d, want 0", state.Pity)
	}
	if !state.Guaranteed {
		t.Fatalf("guaranteed should be set after a genuine loss")
	}
	if state.LossStreak != 1 {
		t.Fatalf("loss streak = %d, want 1", state.LossStreak)
	}

	ann := annotationAt(t, result, events, 3)
	if ann.PityCount != 4 {
		t.Fatalf("pity count = %d, want 4", ann.PityCount)
	}
	if ann.GuaranteeActive {
		t.Fatalf("guarantee was not active entering the draw")
	}
	if ann.Outcome != domain.OutcomeLoss {
		t.Fatalf("outcome = %q, want loss", ann.Outcome)
	}
}

// Continuing the loss: the next rare is forced to win even though the
// recorded pull was again off-banner, and the streak is untouched.
func TestCharacterForcedWinAfterLoss(t *testing.T) {
	specs := append(commons(domain.BannerCharacter, 3),
		rare(domain.BannerCharacter, false),
		rare(domain.BannerCharacter, false),
	)
	result, events := replayLog(t, DefaultConfig(), specs...)

	ann := annotationAt(t, result, events, 4)
	if !ann.GuaranteeActive {
		t.Fatalf("guarantee should be active entering the second rare")
	}
	if ann.Outcome != domain.OutcomeWin {
		t.Fatalf("forced outcome = %q, want win", ann.Outcome)
	}

	state := result.StateByCategory[domain.BannerCharacter]
	if state.Guaranteed {
		t.Fatalf("guarantee should be consumed by the forced win")
	}
	if state.LossStreak != 1 {
		t.Fatalf("loss streak = %d, want 1 (forced wins do not reset it)", state.LossStreak)
	}
}

// A genuine loss is never followed by another genuine loss: the guarantee
// alternates.
func TestCharacterGuaranteeAlternation(t *testing.T) {
	specs := []pullSpec{
		rare(domain.BannerCharacter, false),
		rare(domain.BannerCharacter, false),
		rare(domain.BannerCharacter, false),
		rare(domain.BannerCharacter, false),
	}
	result, events := replayLog(t, DefaultConfig(), specs...)

	for i := 0; i < len(events); i++ {
		ann := annotationAt(t, result, events, i)
		wantForced := i%2 == 1
		if ann.GuaranteeActive != wantForced {
			t.Fatalf("draw %d: guarantee_active = %v, want %v", i, ann.GuaranteeActive, wantForced)
		}
	}
	if state := result.StateByCategory[domain.BannerCharacter]; state.LossStreak != 2 {
		t.Fatalf("loss streak = %d, want 2 (two genuine losses)", state.LossStreak)
	}
}

func TestCharacterStreakResetOnGenuineWin(t *testing.T) {
	specs := []pullSpec{
		rare(domain.BannerCharacter, false), // genuine loss, streak 1
		rare(domain.BannerCharacter, true),  // forced win, streak stays 1
		rare(domain.BannerCharacter, false), // genuine loss, streak 2
		rare(domain.BannerCharacter, true),  // forced win, streak stays 2
		rare(domain.BannerCharacter, true),  // genuine win, streak resets
	}
	result, events := replayLog(t, DefaultConfig(), specs...)

	// streak had reached the default threshold of 2 before the last draw
	ann := annotationAt(t, result, events, 4)
	if !ann.EscalationEligible {
		t.Fatalf("last genuine draw should be escalation eligible")
	}
	if ann.GuaranteeActive {
		t.Fatalf("last draw was a genuine resolution")
	}

	state := result.StateByCategory[domain.BannerCharacter]
	if state.LossStreak != 0 {
		t.Fatalf("loss streak = %d, want 0 after a genuine win", state.LossStreak)
	}
	if state.EscalationEligible {
		t.Fatalf("eligibility should clear with the streak")
	}
}

func TestCharacterEscalationThresholdOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EscalationThreshold = 1
	specs := []pullSpec{
		rare(domain.BannerCharacter, false),
		rare(domain.BannerCharacter, false), // forced; streak already 1 >= threshold
	}
	result, events := replayLog(t, cfg, specs...)

	ann := annotationAt(t, result, events, 1)
	if !ann.EscalationEligible {
		t.Fatalf("streak 1 should be eligible at threshold 1")
	}
}

// The chronicled banner shares the guarantee logic but has no streak.
func TestChronicledNoEscalation(t *testing.T) {
	specs := []pullSpec{
		rare(domain.BannerChronicled, false),
		rare(domain.BannerChronicled, false),
	}
	result, events := replayLog(t, DefaultConfig(), specs...)

	state := result.StateByCategory[domain.BannerChronicled]
	if state.LossStreak != 0 || state.EscalationEligible {
		t.Fatalf("chronicled banner must not report a streak: %+v", state)
	}
	for i := range events {
		if ann := annotationAt(t, result, events, i); ann.EscalationEligible {
			t.Fatalf("draw %d: chronicled annotation reports eligibility", i)
		}
	}
	// guarantee logic still applies
	if ann := annotationAt(t, result, events, 1); !ann.GuaranteeActive || ann.Outcome != domain.OutcomeWin {
		t.Fatalf("second rare should be a forced win: %+v", ann)
	}
}

// Two off-target rares bank points, the on-target hit spends them.
func TestWeaponFatePointAccumulation(t *testing.T) {
	specs := []pullSpec{
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b", target: "spear-x"},
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b"},
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "spear-x"},
	}
	events := buildLog(specs...)

	wantPoints := []int{1, 2, 0}
	for i := range events {
		result, err := Replay(events[:i+1], DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		state := result.StateByCategory[domain.BannerWeapon]
		if state.BonusPoints != wantPoints[i] {
			t.Fatalf("after draw %d: bonus points = %d, want %d", i, state.BonusPoints, wantPoints[i])
		}
		if state.Pity != 0 {
			t.Fatalf("after draw %d: pity = %d, want 0", i, state.Pity)
		}
	}
}

func TestWeaponGuaranteeAtCap(t *testing.T) {
	specs := []pullSpec{
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b", target: "spear-x"},
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b"},
		// points at cap: this draw is forced onto the target and spends them,
		// even though the recorded item would otherwise bank another point
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "spear-x"},
	}
	result, events := replayLog(t, DefaultConfig(), specs...)

	ann := annotationAt(t, result, events, 2)
	if !ann.GuaranteeActive {
		t.Fatalf("guarantee should be in effect at the cap")
	}
	if ann.Outcome != "" {
		t.Fatalf("weapon annotations carry no win/loss outcome, got %q", ann.Outcome)
	}
	state := result.StateByCategory[domain.BannerWeapon]
	if state.BonusPoints != 0 {
		t.Fatalf("bonus points = %d, want 0 after the guarantee fires", state.BonusPoints)
	}
}

func TestWeaponNoTargetNoAccumulation(t *testing.T) {
	specs := []pullSpec{
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b"},
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b"},
	}
	result, _ := replayLog(t, DefaultConfig(), specs...)

	if state := result.StateByCategory[domain.BannerWeapon]; state.BonusPoints != 0 {
		t.Fatalf("bonus points = %d, want 0 without a tracked target", state.BonusPoints)
	}
}

// The config override recomputes history against a hypothetical target
// without touching the per-event targets.
func TestWeaponTargetOverride(t *testing.T) {
	specs := []pullSpec{
		{cat: domain.BannerWeapon, rarity: domain.RarityRare, item: "sword-b", target: "spear-x"},
	}
	cfg := DefaultConfig()
	cfg.TrackedTarget = "sword-b"
	result, _ := replayLog(t, cfg, specs...)

	state := result.StateByCategory[domain.BannerWeapon]
	if state.BonusPoints != 0 {
		t.Fatalf("the recorded item hits the override target; points = %d, want 0", state.BonusPoints)
	}
	if state.TrackedTarget != "sword-b" {
		t.Fatalf("tracked target = %q, want the override", state.TrackedTarget)
	}
}

func TestStandardFlatPity(t *testing.T) {
	specs := append(commons(domain.BannerStandard, 5), rare(domain.BannerStandard, false))
	result, events := replayLog(t, DefaultConfig(), specs...)

	state := result.StateByCategory[domain.BannerStandard]
	if state.Pity != 0 {
		t.Fatalf("pity = %d, want 0 after the rare", state.Pity)
	}
	if state.Guaranteed || state.LossStreak != 0 || state.BonusPoints != 0 {
		t.Fatalf("standard banner carries no extra mechanics: %+v", state)
	}
	ann := annotationAt(t, result, events, 5)
	if ann.PityCount != 6 {
		t.Fatalf("pity count = %d, want 6", ann.PityCount)
	}
	if ann.Outcome != "" || ann.EscalationEligible {
		t.Fatalf("standard annotations carry no outcome or eligibility: %+v", ann)
	}
}

// After a rare, a run of n non-rare pulls leaves pity at exactly n.
func TestPityCountsRunsExactly(t *testing.T) {
	specs := []pullSpec{rare(domain.BannerCharacter, true)}
	specs = append(specs, commons(domain.BannerCharacter, 7)...)
	specs = append(specs, pullSpec{cat: domain.BannerCharacter, rarity: domain.RarityUncommon})
	result, _ := replayLog(t, DefaultConfig(), specs...)

	// uncommon pulls do not reset the rare pity counter
	if state := result.StateByCategory[domain.BannerCharacter]; state.Pity != 8 {
		t.Fatalf("pity = %d, want 8", state.Pity)
	}
}
