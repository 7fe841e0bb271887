package gacha

import (
	"context"
	"fmt"
	"time"

	"gachaVault/domain"
	"gachaVault/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PullEventRepository is the storage contract the service needs. Upserts are
// keyed by (user, external id) with last-write-wins, so re-importing the same
// history is harmless.
type PullEventRepository interface {
	UpsertBatch(ctx context.Context, events []domain.PullEvent) error
	FindAllByUser(ctx context.Context, userID uint) ([]domain.PullEvent, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// StateCache holds replayed snapshots between imports. It is an optimization
// only: the replay always recomputes from the log, and every cache failure is
// treated as a miss.
type StateCache interface {
	GetStates(ctx context.Context, userID uint) (map[domain.BannerCategory]domain.BannerSnapshot, error)
	SetStates(ctx context.Context, userID uint, states map[domain.BannerCategory]domain.BannerSnapshot) error
	Invalidate(ctx context.Context, userID uint) error
}

// PullInput is one draw as handed over by an importer or manual entry,
// before the service assigns identity and ingestion time.
type PullInput struct {
	ExternalID     string
	BannerCategory domain.BannerCategory
	ItemType       domain.ItemType
	ItemKey        string
	Rarity         domain.Rarity
	IsFeatured     *bool
	TrackedTarget  string
	OccurredAt     time.Time
	Raw            map[string]any
}

type GachaService struct {
	pullRepo   PullEventRepository
	stateCache StateCache
	defaultCfg Config
}

// NewGachaService builds the service. stateCache may be nil, in which case
// every state query replays the log.
func NewGachaService(pullRepo PullEventRepository, stateCache StateCache, defaultCfg Config) *GachaService {
	return &GachaService{
		pullRepo:   pullRepo,
		stateCache: stateCache,
		defaultCfg: defaultCfg,
	}
}

// ImportPulls upserts a batch of freshly imported pulls into the user's log
// and returns the total log size afterwards. Within a batch, later entries
// for the same external id supersede earlier ones, mirroring the
// last-write-wins rule the storage applies against existing rows.
func (s *GachaService) ImportPulls(ctx context.Context, userID uint, batch []PullInput) (int64, error) {
	if len(batch) == 0 {
		return 0, fmt.Errorf("import batch is empty")
	}

	now := time.Now().UTC()
	byExternal := make(map[string]int, len(batch))
	events := make([]domain.PullEvent, 0, len(batch))
	for i, in := range batch {
		ev, err := s.buildEvent(userID, in, now)
		if err != nil {
			return 0, fmt.Errorf("pull[%d]: %w", i, err)
		}
		if j, ok := byExternal[ev.ExternalID]; ok {
			events[j] = ev
			continue
		}
		byExternal[ev.ExternalID] = len(events)
		events = append(events, ev)
	}

	if err := s.pullRepo.UpsertBatch(ctx, events); err != nil {
		logger.Error("Failed to upsert pull batch", err)
		return 0, err
	}
	for _, ev := range events {
		GachaPullsIngestedTotal.WithLabelValues(string(ev.BannerCategory), string(ev.Rarity)).Inc()
	}

	s.invalidateCache(ctx, userID)

	logger.Info("pull_batch_imported",
		"user_id", userID,
		"batch_size", len(batch),
		"upserted", len(events),
	)
	return s.pullRepo.CountByUser(ctx, userID)
}

// RecordPull stores a single manually entered draw.
func (s *GachaService) RecordPull(ctx context.Context, userID uint, in PullInput) (domain.PullEvent, error) {
	ev, err := s.buildEvent(userID, in, time.Now().UTC())
	if err != nil {
		return domain.PullEvent{}, err
	}
	if err := s.pullRepo.UpsertBatch(ctx, []domain.PullEvent{ev}); err != nil {
		logger.Error("Failed to record pull", err)
		return domain.PullEvent{}, err
	}
	GachaPullsIngestedTotal.WithLabelValues(string(ev.BannerCategory), string(ev.Rarity)).Inc()
	s.invalidateCache(ctx, userID)
	return ev, nil
}

func (s *GachaService) invalidateCache(ctx context.Context, userID uint) {
	if s.stateCache == nil {
		return
	}
	if err := s.stateCache.Invalidate(ctx, userID); err != nil {
		logger.Warn("Failed to invalidate state cache", err)
	}
}

func (s *GachaService) buildEvent(userID uint, in PullInput, ingestedAt time.Time) (domain.PullEvent, error) {
	if in.ExternalID == "" {
		return domain.PullEvent{}, ErrMissingExternalID
	}
	if in.ItemKey == "" {
		return domain.PullEvent{}, ErrMissingItemKey
	}
	if in.OccurredAt.IsZero() {
		return domain.PullEvent{}, ErrMissingOccurredAt
	}
	if !in.BannerCategory.IsValid() {
		return domain.PullEvent{}, fmt.Errorf("%w: %q", ErrUnknownCategory, in.BannerCategory)
	}
	if !in.Rarity.IsValid() {
		return domain.PullEvent{}, fmt.Errorf("%w: %q", ErrUnknownRarity, in.Rarity)
	}
	if !in.ItemType.IsValid() {
		return domain.PullEvent{}, fmt.Errorf("%w: %q", ErrUnknownItemType, in.ItemType)
	}

	ev := domain.PullEvent{
		ID:             uuid.NewString(),
		UserID:         userID,
		ExternalID:     in.ExternalID,
		BannerCategory: in.BannerCategory,
		ItemType:       in.ItemType,
		ItemKey:        in.ItemKey,
		Rarity:         in.Rarity,
		IsFeatured:     in.IsFeatured,
		TrackedTarget:  in.TrackedTarget,
		OccurredAt:     in.OccurredAt.UTC(),
		IngestedAt:     ingestedAt,
	}
	if len(in.Raw) > 0 {
		ev.Raw = datatypes.JSONMap(in.Raw)
	}
	return ev, nil
}

// ListPulls returns the user's raw event log.
func (s *GachaService) ListPulls(ctx context.Context, userID uint) ([]domain.PullEvent, error) {
	return s.pullRepo.FindAllByUser(ctx, userID)
}

// BannerStates replays the user's full log and returns the current state of
// every banner. Everything is recomputed from scratch: edits, re-imports and
// out-of-order arrivals can never leave a stale counter behind.
func (s *GachaService) BannerStates(ctx context.Context, userID uint, ov Overrides) (map[domain.BannerCategory]domain.BannerSnapshot, error) {
	cacheable := s.stateCache != nil && ov == (Overrides{})
	if cacheable {
		states, err := s.stateCache.GetStates(ctx, userID)
		if err != nil {
			logger.Warn("State cache read failed", err)
		} else if states != nil {
			return states, nil
		}
	}

	events, err := s.pullRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	GachaReplaysTotal.Inc()

	states, err := CurrentState(events, s.defaultCfg.withOverrides(ov))
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.stateCache.SetStates(ctx, userID, states); err != nil {
			logger.Warn("State cache write failed", err)
		}
	}
	return states, nil
}

// BannerStateFor replays the user's full log and returns one banner's state.
func (s *GachaService) BannerStateFor(ctx context.Context, userID uint, category domain.BannerCategory, ov Overrides) (domain.BannerSnapshot, error) {
	events, err := s.pullRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return domain.BannerSnapshot{}, err
	}
	GachaReplaysTotal.Inc()
	return CurrentStateForCategory(events, s.defaultCfg.withOverrides(ov), category)
}

// BannerStatistics computes the descriptive statistics for one banner.
func (s *GachaService) BannerStatistics(ctx context.Context, userID uint, category domain.BannerCategory, ov Overrides) (domain.BannerStats, error) {
	events, err := s.pullRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return domain.BannerStats{}, err
	}
	GachaReplaysTotal.Inc()
	return ComputeStats(events, category, s.defaultCfg.withOverrides(ov))
}

// RarePullHistory returns the annotated rare pulls of one banner.
func (s *GachaService) RarePullHistory(ctx context.Context, userID uint, category domain.BannerCategory, ov Overrides) ([]domain.AnnotatedPull, error) {
	events, err := s.pullRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	GachaReplaysTotal.Inc()
	return RareHistory(events, category, s.defaultCfg.withOverrides(ov))
}
