package gacha

// Config carries the ruleset knobs the replay engine needs. It is passed
// explicitly into every call so that replay stays a pure function of
// (events, config) and alternative rulesets can be evaluated side by side.
type Config struct {
	// EscalationThreshold is the number of consecutive genuine losses after
	// which the next genuine resolution on the character banner becomes
	// radiance-eligible.
	EscalationThreshold int

	// BonusPointsCap is the maximum fate points the weapon banner can bank
	// before the next rare pull is a forced hit on the tracked target.
	BonusPointsCap int

	// TrackedTarget, when non-empty, overrides the event-derived weapon
	// target for "what if I were targeting X" recomputation. History is
	// never mutated.
	TrackedTarget string
}

const (
	defaultEscalationThreshold = 2
	defaultBonusPointsCap      = 2
)

func DefaultConfig() Config {
	return Config{
		EscalationThreshold: defaultEscalationThreshold,
		BonusPointsCap:      defaultBonusPointsCap,
	}
}

// Overrides are per-request config tweaks supplied by the caller, applied on
// top of the service default.
type Overrides struct {
	TrackedTarget       *string
	EscalationThreshold *int
	BonusPointsCap      *int
}

func (cfg Config) withOverrides(o Overrides) Config {
	if o.TrackedTarget != nil {
		cfg.TrackedTarget = *o.TrackedTarget
	}
	if o.EscalationThreshold != nil && *o.EscalationThreshold > 0 {
		cfg.EscalationThreshold = *o.EscalationThreshold
	}
	if o.BonusPointsCap != nil && *o.BonusPointsCap > 0 {
		cfg.BonusPointsCap = *o.BonusPointsCap
	}
	return cfg
}
