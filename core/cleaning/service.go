package cleaning

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core/building"
	"github.com/virtuex/arbes/core/rotation"
)

var (
	// NowFunc facilitates mocking in tests
	NowFunc = time.Now

	ErrSettingsNotFound = errors.New("cleaning settings not found")
	ErrRecordNotFound   = errors.New("cleaning record not found")
	ErrAlreadyCompleted = errors.New("cleaning already recorded for this period")
	ErrEmptyRotation    = errors.New("floor has no rooms in its rotation")
	ErrRotationMismatch = errors.New("room list does not match the floor's rotation")
)

// upcomingCount is how many future periods an overview previews.
const upcomingCount = 3

type (
	Repository interface {
		GetSettings(ctx context.Context, floorID string) (Settings, error)
		QueryAllSettings(ctx context.Context) ([]Settings, error)
		SaveSettings(ctx context.Context, s Settings) (Settings, error)
		// ApplyPendingChange folds a scheduled frequency change into the
		// active frequency only if the stored pending values still equal the
		// given ones, and clears them. Reports whether the row changed,
		// so concurrent callers fold a given change at most once.
		ApplyPendingChange(ctx context.Context, floorID string, freq rotation.Frequency, fromPeriod string) (bool, error)

		QueryRotation(ctx context.Context, floorID string) ([]RotationEntry, error)
		ReplaceRotation(ctx context.Context, floorID string, roomIDs []string) error

		CreateRecord(ctx context.Context, rec Record) (Record, error)
		GetRecordByPeriod(ctx context.Context, floorID, period string) (Record, error)
		QueryRecentRecords(ctx context.Context, floorID string, limit int) ([]Record, error)
	}

	// Overview is everything a floor's residents see about their cleaning duty.
	Overview struct {
		FloorID       string             `json:"floor_id"`
		Frequency     rotation.Frequency `json:"frequency"`
		Period        string             `json:"period"`
		PeriodRange   string             `json:"period_range"`
		RoomID        string             `json:"room_id"`
		Completed     bool               `json:"completed"`
		Record        *Record            `json:"record,omitempty"`
		Pending       *PendingChange     `json:"pending_change,omitempty"`
		Upcoming      []UpcomingPeriod   `json:"upcoming"`
		RecentRecords []Record           `json:"recent_records"`
	}

	PendingChange struct {
		Frequency  rotation.Frequency `json:"frequency"`
		FromPeriod string             `json:"from_period"`
	}

	UpcomingPeriod struct {
		Period      string `json:"period"`
		PeriodRange string `json:"period_range"`
		RoomID      string `json:"room_id"`
	}

	Service struct {
		repo        Repository
		buildingSvc *building.Service
	}
)

func NewService(repo Repository, buildingSvc *building.Service) *Service {
	return &Service{repo: repo, buildingSvc: buildingSvc}
}

// GetSettings returns the floor's settings, initializing weekly defaults and
// seeding the rotation from the floor's rooms on first access.
func (svc *Service) GetSettings(ctx context.Context, floorID string) (Settings, error) {
	s, err := svc.repo.GetSettings(ctx, floorID)
	if err == nil {
		return s, nil
	}
	if errors.Cause(err) != ErrSettingsNotFound {
		return Settings{}, err
	}

	if _, err := svc.buildingSvc.GetFloor(ctx, floorID); err != nil {
		return Settings{}, err
	}
	if err := svc.resetRotation(ctx, floorID); err != nil {
		return Settings{}, err
	}
	return svc.repo.SaveSettings(ctx, Settings{
		FloorID:   floorID,
		Frequency: rotation.Weekly,
		UpdatedAt: NowFunc().UTC(),
	})
}

func (svc *Service) Overview(ctx context.Context, floorID string) (Overview, error) {
	now := NowFunc()
	s, err := svc.applyPendingIfDue(ctx, floorID, now)
	if err != nil {
		return Overview{}, err
	}
	rot, err := svc.repo.QueryRotation(ctx, floorID)
	if err != nil {
		return Overview{}, err
	}
	period := rotation.CurrentPeriod(s.Frequency, now)
	ov := Overview{
		FloorID:     floorID,
		Frequency:   s.Frequency,
		Period:      period.String(),
		PeriodRange: rotation.FormatPeriod(period.String(), now.Location()),
		RoomID:      assignedRoom(rot, period.String()),
	}
	if s.HasPending() {
		ov.Pending = &PendingChange{Frequency: *s.PendingFrequency, FromPeriod: *s.PendingFromPeriod}
	}

	rec, err := svc.repo.GetRecordByPeriod(ctx, floorID, ov.Period)
	switch errors.Cause(err) {
	case nil:
		ov.Completed = true
		ov.Record = &rec
	case ErrRecordNotFound:
	default:
		return Overview{}, err
	}

	next := period
	for i := 0; i < upcomingCount; i++ {
		next = next.Next()
		ov.Upcoming = append(ov.Upcoming, UpcomingPeriod{
			Period:      next.String(),
			PeriodRange: rotation.FormatPeriod(next.String(), now.Location()),
			RoomID:      assignedRoom(rot, next.String()),
		})
	}

	if ov.RecentRecords, err = svc.repo.QueryRecentRecords(ctx, floorID, 10); err != nil {
		return Overview{}, err
	}
	return ov, nil
}

// Complete records the current period's cleaning as done by the assigned room.
func (svc *Service) Complete(ctx context.Context, floorID, userID string, cc CompleteCleaning) (Record, error) {
	if err := cc.Validate(); err != nil {
		return Record{}, err
	}

	now := NowFunc()
	s, err := svc.applyPendingIfDue(ctx, floorID, now)
	if err != nil {
		return Record{}, err
	}
	rot, err := svc.repo.QueryRotation(ctx, floorID)
	if err != nil {
		return Record{}, err
	}
	if len(rot) == 0 {
		return Record{}, ErrEmptyRotation
	}

	period := rotation.CurrentPeriod(s.Frequency, now).String()
	if _, err := svc.repo.GetRecordByPeriod(ctx, floorID, period); err == nil {
		return Record{}, ErrAlreadyCompleted
	} else if errors.Cause(err) != ErrRecordNotFound {
		return Record{}, err
	}

	return svc.repo.CreateRecord(ctx, Record{
		FloorID:     floorID,
		RoomID:      rot[rotation.AssignedIndex(len(rot), period)].RoomID,
		UserID:      userID,
		Period:      period,
		Photos:      cc.Photos,
		CompletedAt: now.UTC(),
	})
}

// SetFrequency switches the floor's frequency immediately and drops any
// scheduled change.
func (svc *Service) SetFrequency(ctx context.Context, floorID string, cf ChangeFrequency) (Settings, error) {
	if err := cf.Validate(); err != nil {
		return Settings{}, err
	}
	s, err := svc.GetSettings(ctx, floorID)
	if err != nil {
		return Settings{}, err
	}
	s.Frequency = cf.Frequency
	s.PendingFrequency = nil
	s.PendingFromPeriod = nil
	s.UpdatedAt = NowFunc().UTC()
	return svc.repo.SaveSettings(ctx, s)
}

// ScheduleFrequencyChange arranges for the floor to switch frequency at the
// start of the next period boundary instead of mid-period.
func (svc *Service) ScheduleFrequencyChange(ctx context.Context, floorID string, cf ChangeFrequency) (Settings, error) {
	if err := cf.Validate(); err != nil {
		return Settings{}, err
	}
	s, err := svc.GetSettings(ctx, floorID)
	if err != nil {
		return Settings{}, err
	}

	if cf.Frequency == s.Frequency {
		// nothing to transition to; drop any stale scheduled change
		s.PendingFrequency = nil
		s.PendingFromPeriod = nil
	} else {
		from := rotation.NextPeriodFromTransition(s.Frequency, cf.Frequency, NowFunc()).String()
		freq := cf.Frequency
		s.PendingFrequency = &freq
		s.PendingFromPeriod = &from
	}
	s.UpdatedAt = NowFunc().UTC()
	return svc.repo.SaveSettings(ctx, s)
}

// ScheduleFrequencyChangeAll schedules the same frequency change on every
// floor that has settings.
func (svc *Service) ScheduleFrequencyChangeAll(ctx context.Context, cf ChangeFrequency) error {
	if err := cf.Validate(); err != nil {
		return err
	}
	all, err := svc.repo.QueryAllSettings(ctx)
	if err != nil {
		return err
	}
	for _, s := range all {
		if _, err := svc.ScheduleFrequencyChange(ctx, s.FloorID, cf); err != nil {
			return errors.Wrapf(err, "scheduling change for floor %s", s.FloorID)
		}
	}
	return nil
}

func (svc *Service) Rotation(ctx context.Context, floorID string) ([]RotationEntry, error) {
	return svc.repo.QueryRotation(ctx, floorID)
}

// Reorder replaces the floor's rotation order. The given rooms must be a
// permutation of the rooms already in the rotation.
func (svc *Service) Reorder(ctx context.Context, floorID string, rr ReorderRotation) error {
	if err := rr.Validate(); err != nil {
		return err
	}
	rot, err := svc.repo.QueryRotation(ctx, floorID)
	if err != nil {
		return err
	}
	if len(rot) != len(rr.RoomIDs) {
		return ErrRotationMismatch
	}
	current := make(map[string]bool, len(rot))
	for _, entry := range rot {
		current[entry.RoomID] = true
	}
	for _, id := range rr.RoomIDs {
		if !current[id] {
			return ErrRotationMismatch
		}
	}
	return svc.repo.ReplaceRotation(ctx, floorID, rr.RoomIDs)
}

// RemoveFromRotation drops a room from the floor's rotation, closing the
// position gap it leaves behind. No-op when the room is not in the rotation.
func (svc *Service) RemoveFromRotation(ctx context.Context, floorID, roomID string) error {
	rot, err := svc.repo.QueryRotation(ctx, floorID)
	if err != nil {
		return err
	}
	roomIDs := make([]string, 0, len(rot))
	for _, entry := range rot {
		if entry.RoomID != roomID {
			roomIDs = append(roomIDs, entry.RoomID)
		}
	}
	if len(roomIDs) == len(rot) {
		return nil
	}
	return svc.repo.ReplaceRotation(ctx, floorID, roomIDs)
}

func (svc *Service) Records(ctx context.Context, floorID string, limit int) ([]Record, error) {
	return svc.repo.QueryRecentRecords(ctx, floorID, limit)
}

// applyPendingIfDue folds a scheduled frequency change into the active
// frequency once the change's start period has begun. The repository applies
// it conditionally so a change is folded exactly once even under concurrent
// requests.
func (svc *Service) applyPendingIfDue(ctx context.Context, floorID string, now time.Time) (Settings, error) {
	s, err := svc.GetSettings(ctx, floorID)
	if err != nil {
		return Settings{}, err
	}
	if !s.HasPending() {
		return s, nil
	}

	p, ok := rotation.ParsePeriod(*s.PendingFromPeriod)
	if !ok {
		// unreadable pending period; drop the change rather than stall the floor
		s.PendingFrequency = nil
		s.PendingFromPeriod = nil
		s.UpdatedAt = now.UTC()
		return svc.repo.SaveSettings(ctx, s)
	}
	if now.Before(rotation.PeriodRange(p, now.Location()).Start) {
		return s, nil
	}

	// applied or not (another request may have beaten us to it), reread
	applied, err := svc.repo.ApplyPendingChange(ctx, floorID, *s.PendingFrequency, *s.PendingFromPeriod)
	if err != nil {
		return Settings{}, err
	}
	if applied {
		// the new cadence starts over from the default room order; only the
		// request that won the conditional update regenerates
		if err := svc.resetRotation(ctx, floorID); err != nil {
			return Settings{}, err
		}
	}
	return svc.repo.GetSettings(ctx, floorID)
}

// resetRotation rebuilds the floor's rotation from its rooms in default order.
func (svc *Service) resetRotation(ctx context.Context, floorID string) error {
	rooms, err := svc.buildingSvc.QueryRooms(ctx, floorID)
	if err != nil {
		return err
	}
	roomIDs := make([]string, len(rooms))
	for i, rm := range rooms {
		roomIDs[i] = rm.ID
	}
	return svc.repo.ReplaceRotation(ctx, floorID, roomIDs)
}

// assignedRoom is empty when the floor has no rotation; "no room assigned" is
// a display state, not an error.
func assignedRoom(rot []RotationEntry, period string) string {
	if len(rot) == 0 {
		return ""
	}
	return rot[rotation.AssignedIndex(len(rot), period)].RoomID
}
