package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core/cleaning"
	"github.com/virtuex/arbes/core/rotation"
)

type dbSettings struct {
	FloorID           string         `db:"floor_id"`
	Frequency         string         `db:"frequency"`
	PendingFrequency  sql.NullString `db:"pending_frequency"`
	PendingFromPeriod sql.NullString `db:"pending_from_period"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type dbRotationEntry struct {
	ID        string    `db:"id"`
	FloorID   string    `db:"floor_id"`
	RoomID    string    `db:"room_id"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type dbRecord struct {
	ID          string         `db:"id"`
	FloorID     string         `db:"floor_id"`
	RoomID      string         `db:"room_id"`
	UserID      string         `db:"user_id"`
	Period      string         `db:"period"`
	Photos      pq.StringArray `db:"photos"`
	CompletedAt time.Time      `db:"completed_at"`
}

type cleaningRepository struct {
	db *sqlx.DB
}

var _ cleaning.Repository = (*cleaningRepository)(nil) // interface compliance check

func (repo cleaningRepository) unpackRecord(r dbRecord) cleaning.Record {
	return cleaning.Record{
		ID:          r.ID,
		FloorID:     r.FloorID,
		RoomID:      r.RoomID,
		UserID:      r.UserID,
		Period:      r.Period,
		Photos:      r.Photos,
		CompletedAt: r.CompletedAt,
	}
}

func NewCleaningRepository(db *sqlx.DB) *cleaningRepository {
	return &cleaningRepository{db: db}
}

func (repo cleaningRepository) unpackSettings(s dbSettings) cleaning.Settings {
	res := cleaning.Settings{
		FloorID:   s.FloorID,
		Frequency: rotation.Frequency(s.Frequency),
		UpdatedAt: s.UpdatedAt,
	}
	if s.PendingFrequency.Valid && s.PendingFromPeriod.Valid {
		freq := rotation.Frequency(s.PendingFrequency.String)
		period := s.PendingFromPeriod.String
		res.PendingFrequency = &freq
		res.PendingFromPeriod = &period
	}
	return res
}

func (repo cleaningRepository) GetSettings(ctx context.Context, floorID string) (cleaning.Settings, error) {
	var s dbSettings
	q := `SELECT floor_id, frequency, pending_frequency, pending_from_period, updated_at FROM cleaning_settings WHERE floor_id = $1`
	if err := repo.db.GetContext(ctx, &s, q, floorID); err != nil {
		if err == sql.ErrNoRows {
			return cleaning.Settings{}, cleaning.ErrSettingsNotFound
		}
		return cleaning.Settings{}, errors.Wrap(err, "finding cleaning settings")
	}
	return repo.unpackSettings(s), nil
}

func (repo cleaningRepository) QueryAllSettings(ctx context.Context) ([]cleaning.Settings, error) {
	var rows []dbSettings
	q := `
	SELECT s.floor_id, s.frequency, s.pending_frequency, s.pending_from_period, s.updated_at
	FROM cleaning_settings s JOIN floor f ON f.id = s.floor_id
	ORDER BY f.number ASC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying cleaning settings")
	}
	res := make([]cleaning.Settings, 0, len(rows))
	for _, s := range rows {
		res = append(res, repo.unpackSettings(s))
	}
	return res, nil
}

func (repo cleaningRepository) SaveSettings(ctx context.Context, s cleaning.Settings) (cleaning.Settings, error) {
	var pendingFreq, pendingFrom sql.NullString
	if s.HasPending() {
		pendingFreq = nullString(string(*s.PendingFrequency))
		pendingFrom = nullString(*s.PendingFromPeriod)
	}
	q := `
	INSERT INTO cleaning_settings (floor_id, frequency, pending_frequency, pending_from_period, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (floor_id) DO UPDATE
	SET frequency = EXCLUDED.frequency, pending_frequency = EXCLUDED.pending_frequency,
	    pending_from_period = EXCLUDED.pending_from_period, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, q, s.FloorID, string(s.Frequency), pendingFreq, pendingFrom, s.UpdatedAt.UTC()); err != nil {
		return cleaning.Settings{}, errors.Wrap(err, "saving cleaning settings")
	}
	return s, nil
}

// ApplyPendingChange promotes the scheduled frequency in a single conditional
// update; the WHERE clause makes concurrent callers fold a change at most once.
func (repo cleaningRepository) ApplyPendingChange(ctx context.Context, floorID string, freq rotation.Frequency, fromPeriod string) (bool, error) {
	q := `
	UPDATE cleaning_settings
	SET frequency = pending_frequency, pending_frequency = NULL, pending_from_period = NULL, updated_at = NOW()
	WHERE floor_id = $1 AND pending_frequency = $2 AND pending_from_period = $3`
	res, err := repo.db.ExecContext(ctx, q, floorID, string(freq), fromPeriod)
	if err != nil {
		return false, errors.Wrap(err, "applying pending frequency change")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "applying pending frequency change")
	}
	return n > 0, nil
}

func (repo cleaningRepository) QueryRotation(ctx context.Context, floorID string) ([]cleaning.RotationEntry, error) {
	var rows []dbRotationEntry
	q := `SELECT id, floor_id, room_id, position, created_at, updated_at FROM cleaning_rotation WHERE floor_id = $1 ORDER BY position ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, floorID); err != nil {
		return nil, errors.Wrap(err, "querying rotation")
	}
	res := make([]cleaning.RotationEntry, 0, len(rows))
	for _, r := range rows {
		res = append(res, cleaning.RotationEntry(r))
	}
	return res, nil
}

func (repo cleaningRepository) ReplaceRotation(ctx context.Context, floorID string, roomIDs []string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "replacing rotation")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cleaning_rotation WHERE floor_id = $1`, floorID); err != nil {
		return errors.Wrap(err, "clearing rotation")
	}
	now := time.Now().UTC()
	q := `INSERT INTO cleaning_rotation (id, floor_id, room_id, position, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`
	for i, roomID := range roomIDs {
		if _, err = tx.ExecContext(ctx, q, uuid.New().String(), floorID, roomID, i, now); err != nil {
			return errors.Wrap(err, "inserting rotation entry")
		}
	}
	return errors.Wrap(tx.Commit(), "replacing rotation")
}

func (repo cleaningRepository) CreateRecord(ctx context.Context, rec cleaning.Record) (cleaning.Record, error) {
	rec.ID = uuid.New().String()
	q := `
	INSERT INTO cleaning_record (id, floor_id, room_id, user_id, period, photos, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q, rec.ID, rec.FloorID, rec.RoomID, rec.UserID, rec.Period, pq.Array(rec.Photos), rec.CompletedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return cleaning.Record{}, cleaning.ErrAlreadyCompleted
		}
		return cleaning.Record{}, errors.Wrap(err, "inserting cleaning record")
	}
	return rec, nil
}

func (repo cleaningRepository) GetRecordByPeriod(ctx context.Context, floorID, period string) (cleaning.Record, error) {
	var r dbRecord
	q := `SELECT id, floor_id, room_id, user_id, period, photos, completed_at FROM cleaning_record WHERE floor_id = $1 AND period = $2`
	if err := repo.db.GetContext(ctx, &r, q, floorID, period); err != nil {
		if err == sql.ErrNoRows {
			return cleaning.Record{}, cleaning.ErrRecordNotFound
		}
		return cleaning.Record{}, errors.Wrap(err, "finding cleaning record")
	}
	return repo.unpackRecord(r), nil
}

func (repo cleaningRepository) QueryRecentRecords(ctx context.Context, floorID string, limit int) ([]cleaning.Record, error) {
	var rows []dbRecord
	q := `
	SELECT id, floor_id, room_id, user_id, period, photos, completed_at
	FROM cleaning_record WHERE floor_id = $1
	ORDER BY completed_at DESC LIMIT $2`
	if err := repo.db.SelectContext(ctx, &rows, q, floorID, limit); err != nil {
		return nil, errors.Wrap(err, "querying cleaning records")
	}
	res := make([]cleaning.Record, 0, len(rows))
	for _, r := range rows {
		res = append(res, repo.unpackRecord(r))
	}
	return res, nil
}
