package building

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrFloorNotFound = errors.New("floor not found")
	ErrRoomNotFound  = errors.New("room not found")
	ErrFloorExists   = errors.New("a floor with this number already exists")
)

type (
	Repository interface {
		CreateFloor(ctx context.Context, flr Floor) (Floor, error)
		QueryAllFloors(ctx context.Context) ([]Floor, error)
		GetFloorByID(ctx context.Context, id string) (Floor, error)
		UpdateFloor(ctx context.Context, flr Floor) (Floor, error)
		DeleteFloor(ctx context.Context, id string) error

		CreateRoom(ctx context.Context, rm Room) (Room, error)
		// QueryRoomsByFloorID returns the floor's rooms in creation order;
		// this order seeds new rotations.
		QueryRoomsByFloorID(ctx context.Context, floorID string) ([]Room, error)
		GetRoomByID(ctx context.Context, id string) (Room, error)
		UpdateRoom(ctx context.Context, rm Room) (Room, error)
		DeleteRoom(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateFloor(ctx context.Context, nf NewFloor) (Floor, error) {
	now := time.Now().UTC()
	return svc.repo.CreateFloor(ctx, Floor{
		Number:    nf.Number,
		Name:      nf.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAllFloors(ctx context.Context) ([]Floor, error) {
	return svc.repo.QueryAllFloors(ctx)
}

func (svc *Service) GetFloor(ctx context.Context, id string) (Floor, error) {
	return svc.repo.GetFloorByID(ctx, id)
}

func (svc *Service) UpdateFloor(ctx context.Context, id string, uf UpdateFloor) (Floor, error) {
	return svc.repo.UpdateFloor(ctx, Floor{
		ID:        id,
		Number:    uf.Number,
		Name:      uf.Name,
		UpdatedAt: time.Now().UTC(),
	})
}

func (svc *Service) DeleteFloor(ctx context.Context, id string) error {
	return svc.repo.DeleteFloor(ctx, id)
}

func (svc *Service) CreateRoom(ctx context.Context, nr NewRoom) (Room, error) {
	if _, err := svc.repo.GetFloorByID(ctx, nr.FloorID); err != nil {
		return Room{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateRoom(ctx, Room{
		FloorID:   nr.FloorID,
		Name:      nr.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryRooms(ctx context.Context, floorID string) ([]Room, error) {
	return svc.repo.QueryRoomsByFloorID(ctx, floorID)
}

func (svc *Service) GetRoom(ctx context.Context, id string) (Room, error) {
	return svc.repo.GetRoomByID(ctx, id)
}

func (svc *Service) UpdateRoom(ctx context.Context, id string, ur UpdateRoom) (Room, error) {
	rm, err := svc.repo.GetRoomByID(ctx, id)
	if err != nil {
		return Room{}, err
	}
	rm.Name = ur.Name
	rm.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRoom(ctx, rm)
}

func (svc *Service) DeleteRoom(ctx context.Context, id string) error {
	return svc.repo.DeleteRoom(ctx, id)
}
