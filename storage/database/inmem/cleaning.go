package inmemrepos

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/virtuex/arbes/core/cleaning"
	"github.com/virtuex/arbes/core/rotation"
)

type cleaningRepository struct {
	mu       sync.RWMutex
	settings map[string]cleaning.Settings        // floorID
	rotation map[string][]cleaning.RotationEntry // floorID
	records  map[string]cleaning.Record          // floorID + "/" + period
}

var _ cleaning.Repository = (*cleaningRepository)(nil) // interface compliance check

func NewCleaningRepository() *cleaningRepository {
	return &cleaningRepository{
		settings: make(map[string]cleaning.Settings),
		rotation: make(map[string][]cleaning.RotationEntry),
		records:  make(map[string]cleaning.Record),
	}
}

// Reset empties the store; lets tests start from a clean slate.
func (repo *cleaningRepository) Reset() {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.settings = make(map[string]cleaning.Settings)
	repo.rotation = make(map[string][]cleaning.RotationEntry)
	repo.records = make(map[string]cleaning.Record)
}

func (repo *cleaningRepository) GetSettings(ctx context.Context, floorID string) (cleaning.Settings, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if s, ok := repo.settings[floorID]; ok {
		return s, nil
	}
	return cleaning.Settings{}, cleaning.ErrSettingsNotFound
}

func (repo *cleaningRepository) QueryAllSettings(ctx context.Context) ([]cleaning.Settings, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	res := make([]cleaning.Settings, 0, len(repo.settings))
	for _, s := range repo.settings {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].FloorID < res[j].FloorID })
	return res, nil
}

func (repo *cleaningRepository) SaveSettings(ctx context.Context, s cleaning.Settings) (cleaning.Settings, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.settings[s.FloorID] = s
	return s, nil
}

func (repo *cleaningRepository) ApplyPendingChange(ctx context.Context, floorID string, freq rotation.Frequency, fromPeriod string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	s, ok := repo.settings[floorID]
	if !ok || !s.HasPending() || *s.PendingFrequency != freq || *s.PendingFromPeriod != fromPeriod {
		return false, nil
	}
	s.Frequency = freq
	s.PendingFrequency = nil
	s.PendingFromPeriod = nil
	s.UpdatedAt = time.Now().UTC()
	repo.settings[floorID] = s
	return true, nil
}

func (repo *cleaningRepository) QueryRotation(ctx context.Context, floorID string) ([]cleaning.RotationEntry, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	res := make([]cleaning.RotationEntry, len(repo.rotation[floorID]))
	copy(res, repo.rotation[floorID])
	return res, nil
}

func (repo *cleaningRepository) ReplaceRotation(ctx context.Context, floorID string, roomIDs []string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	now := time.Now().UTC()
	entries := make([]cleaning.RotationEntry, 0, len(roomIDs))
	for i, roomID := range roomIDs {
		entries = append(entries, cleaning.RotationEntry{
			ID:        uuid.New().String(),
			FloorID:   floorID,
			RoomID:    roomID,
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	repo.rotation[floorID] = entries
	return nil
}

func (repo *cleaningRepository) CreateRecord(ctx context.Context, rec cleaning.Record) (cleaning.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := rec.FloorID + "/" + rec.Period
	if _, ok := repo.records[key]; ok {
		return cleaning.Record{}, cleaning.ErrAlreadyCompleted
	}
	rec.ID = uuid.New().String()
	repo.records[key] = rec
	return rec, nil
}

func (repo *cleaningRepository) GetRecordByPeriod(ctx context.Context, floorID, period string) (cleaning.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if rec, ok := repo.records[floorID+"/"+period]; ok {
		return rec, nil
	}
	return cleaning.Record{}, cleaning.ErrRecordNotFound
}

func (repo *cleaningRepository) QueryRecentRecords(ctx context.Context, floorID string, limit int) ([]cleaning.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var res []cleaning.Record
	for _, rec := range repo.records {
		if rec.FloorID == floorID {
			res = append(res, rec)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CompletedAt.After(res[j].CompletedAt) })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
