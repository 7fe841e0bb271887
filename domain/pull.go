package domain

import (
	"time"

	"gorm.io/datatypes"
)

// BannerCategory is the closed set of draw pools. Each category runs its own
// independent pity/guarantee state machine in business/gacha.
type BannerCategory string

const (
	// BannerCharacter is the limited character banner: 50/50 rate-up with a
	// radiance streak that escalates after consecutive genuine losses.
	BannerCharacter BannerCategory = "character"
	// BannerChronicled is the chronicled banner: same guarantee logic as the
	// character banner but without a streak mechanic.
	BannerChronicled BannerCategory = "chronicled"
	// BannerWeapon is the weapon banner: fate points accumulate toward a
	// tracked target item and are spent on a hit or a forced win.
	BannerWeapon BannerCategory = "weapon"
	// BannerStandard is the permanent banner: flat pity, no rate-up.
	BannerStandard BannerCategory = "standard"
)

// AllBannerCategories lists every category in a stable order.
var AllBannerCategories = []BannerCategory{
	BannerCharacter,
	BannerChronicled,
	BannerWeapon,
	BannerStandard,
}

func (c BannerCategory) IsValid() bool {
	switch c {
	case BannerCharacter, BannerChronicled, BannerWeapon, BannerStandard:
		return true
	}
	return false
}

// HasRateUp reports whether the category resolves rare pulls against a
// featured rate-up item (win/loss bookkeeping applies).
func (c BannerCategory) HasRateUp() bool {
	return c == BannerCharacter || c == BannerChronicled
}

// TracksEscalation reports whether the category keeps a consecutive-loss
// radiance streak.
func (c BannerCategory) TracksEscalation() bool {
	return c == BannerCharacter
}

// Rarity is the closed set of reward tiers. Only RarityRare resets pity.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare:
		return true
	}
	return false
}

type ItemType string

const (
	ItemCharacter ItemType = "character"
	ItemEquipment ItemType = "equipment"
)

func (t ItemType) IsValid() bool {
	return t == ItemCharacter || t == ItemEquipment
}

// PullEvent is one recorded draw. The log is append-only: the replay engine
// never writes derived state back onto events, and everything it reports is
// recomputed from scratch on every call.
type PullEvent struct {
	// ID is the stable identifier assigned once at ingestion.
	ID     string `gorm:"column:id;primaryKey" json:"id"`
	UserID uint   `gorm:"column:user_id;not null;uniqueIndex:uk_pull_user_external" json:"user_id"`
	// ExternalID is the importer dedup key (the game's own record id).
	// Two events sharing it describe the same real-world draw; storage
	// upserts on it with last-write-wins.
	ExternalID     string         `gorm:"column:external_id;not null;uniqueIndex:uk_pull_user_external" json:"external_id"`
	BannerCategory BannerCategory `gorm:"column:banner_category;not null" json:"banner_category"`
	ItemType       ItemType       `gorm:"column:item_type;not null" json:"item_type"`
	ItemKey        string         `gorm:"column:item_key;not null" json:"item_key"`
	Rarity         Rarity         `gorm:"column:rarity;not null" json:"rarity"`
	// IsFeatured is set only on rare pulls of rate-up banners: the drawn
	// item matched the banner's advertised rate-up.
	IsFeatured *bool `gorm:"column:is_featured" json:"is_featured,omitempty"`
	// TrackedTarget is the weapon-banner item the player was banking fate
	// points toward at the time of this draw. It may change between events.
	TrackedTarget string `gorm:"column:tracked_target" json:"tracked_target,omitempty"`
	// OccurredAt is when the draw happened in-game: the primary ordering key.
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	// IngestedAt is when the record was stored locally: the first tie-break.
	IngestedAt time.Time `gorm:"column:ingested_at;not null" json:"ingested_at"`
	// Raw keeps the original importer payload for auditing.
	Raw datatypes.JSONMap `gorm:"column:raw;type:jsonb" json:"raw,omitempty"`
}

func (PullEvent) TableName() string {
	return "pull_events"
}

// Featured reports IsFeatured treating absent as false.
func (e PullEvent) Featured() bool {
	return e.IsFeatured != nil && *e.IsFeatured
}
