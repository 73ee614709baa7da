package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core/building"
)

type dbFloor struct {
	ID        string    `db:"id"`
	Number    int       `db:"number"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type dbRoom struct {
	ID        string    `db:"id"`
	FloorID   string    `db:"floor_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type buildingRepository struct {
	db *sqlx.DB
}

var _ building.Repository = (*buildingRepository)(nil) // interface compliance check

func NewBuildingRepository(db *sqlx.DB) *buildingRepository {
	return &buildingRepository{db: db}
}

func (repo buildingRepository) CreateFloor(ctx context.Context, flr building.Floor) (building.Floor, error) {
	flr.ID = uuid.New().String()
	q := `INSERT INTO floor (id, number, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, q, flr.ID, flr.Number, flr.Name, flr.CreatedAt.UTC(), flr.UpdatedAt.UTC()); err != nil {
		if isUniqueViolation(err) {
			return building.Floor{}, building.ErrFloorExists
		}
		return building.Floor{}, errors.Wrap(err, "inserting floor")
	}
	return flr, nil
}

func (repo buildingRepository) QueryAllFloors(ctx context.Context) ([]building.Floor, error) {
	var floors []dbFloor
	q := `SELECT id, number, name, created_at, updated_at FROM floor ORDER BY number ASC`
	if err := repo.db.SelectContext(ctx, &floors, q); err != nil {
		return nil, errors.Wrap(err, "querying floors")
	}
	res := make([]building.Floor, 0, len(floors))
	for _, f := range floors {
		res = append(res, building.Floor(f))
	}
	return res, nil
}

func (repo buildingRepository) GetFloorByID(ctx context.Context, id string) (building.Floor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return building.Floor{}, building.ErrFloorNotFound
	}
	var f dbFloor
	q := `SELECT id, number, name, created_at, updated_at FROM floor WHERE id = $1`
	if err := repo.db.GetContext(ctx, &f, q, id); err != nil {
		if err == sql.ErrNoRows {
			return building.Floor{}, building.ErrFloorNotFound
		}
		return building.Floor{}, errors.Wrap(err, "finding floor")
	}
	return building.Floor(f), nil
}

func (repo buildingRepository) UpdateFloor(ctx context.Context, flr building.Floor) (building.Floor, error) {
	curr, err := repo.GetFloorByID(ctx, flr.ID)
	if err != nil {
		return building.Floor{}, err
	}
	if flr.Number != 0 {
		curr.Number = flr.Number
	}
	if flr.Name != "" {
		curr.Name = flr.Name
	}
	curr.UpdatedAt = flr.UpdatedAt

	q := `UPDATE floor SET number = $2, name = $3, updated_at = $4 WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, q, curr.ID, curr.Number, curr.Name, curr.UpdatedAt.UTC()); err != nil {
		if isUniqueViolation(err) {
			return building.Floor{}, building.ErrFloorExists
		}
		return building.Floor{}, errors.Wrap(err, "updating floor")
	}
	return curr, nil
}

func (repo buildingRepository) DeleteFloor(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM floor WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting floor")
	}
	return nil
}

func (repo buildingRepository) CreateRoom(ctx context.Context, rm building.Room) (building.Room, error) {
	rm.ID = uuid.New().String()
	q := `INSERT INTO room (id, floor_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, q, rm.ID, rm.FloorID, rm.Name, rm.CreatedAt.UTC(), rm.UpdatedAt.UTC()); err != nil {
		return building.Room{}, errors.Wrap(err, "inserting room")
	}
	return rm, nil
}

func (repo buildingRepository) QueryRoomsByFloorID(ctx context.Context, floorID string) ([]building.Room, error) {
	var rooms []dbRoom
	q := `SELECT id, floor_id, name, created_at, updated_at FROM room WHERE floor_id = $1 ORDER BY created_at ASC`
	if err := repo.db.SelectContext(ctx, &rooms, q, floorID); err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	res := make([]building.Room, 0, len(rooms))
	for _, r := range rooms {
		res = append(res, building.Room(r))
	}
	return res, nil
}

func (repo buildingRepository) GetRoomByID(ctx context.Context, id string) (building.Room, error) {
	if _, err := uuid.Parse(id); err != nil {
		return building.Room{}, building.ErrRoomNotFound
	}
	var r dbRoom
	q := `SELECT id, floor_id, name, created_at, updated_at FROM room WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		if err == sql.ErrNoRows {
			return building.Room{}, building.ErrRoomNotFound
		}
		return building.Room{}, errors.Wrap(err, "finding room")
	}
	return building.Room(r), nil
}

func (repo buildingRepository) UpdateRoom(ctx context.Context, rm building.Room) (building.Room, error) {
	q := `UPDATE room SET name = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, rm.ID, rm.Name, rm.UpdatedAt.UTC())
	if err != nil {
		return building.Room{}, errors.Wrap(err, "updating room")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return building.Room{}, building.ErrRoomNotFound
	}
	return rm, nil
}

func (repo buildingRepository) DeleteRoom(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM room WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting room")
	}
	return nil
}
