package inmemrepos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/virtuex/arbes/core/building"
)

type buildingRepository struct {
	mu     sync.RWMutex
	floors map[string]building.Floor
	rooms  map[string]building.Room
}

var _ building.Repository = (*buildingRepository)(nil) // interface compliance check

func NewBuildingRepository() *buildingRepository {
	return &buildingRepository{
		floors: make(map[string]building.Floor),
		rooms:  make(map[string]building.Room),
	}
}

// Reset empties the store; lets tests start from a clean slate.
func (repo *buildingRepository) Reset() {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.floors = make(map[string]building.Floor)
	repo.rooms = make(map[string]building.Room)
}

func (repo *buildingRepository) CreateFloor(ctx context.Context, flr building.Floor) (building.Floor, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, f := range repo.floors {
		if f.Number == flr.Number {
			return building.Floor{}, building.ErrFloorExists
		}
	}
	flr.ID = uuid.New().String()
	repo.floors[flr.ID] = flr
	return flr, nil
}

func (repo *buildingRepository) QueryAllFloors(ctx context.Context) ([]building.Floor, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	res := make([]building.Floor, 0, len(repo.floors))
	for _, f := range repo.floors {
		res = append(res, f)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Number < res[j].Number })
	return res, nil
}

func (repo *buildingRepository) GetFloorByID(ctx context.Context, id string) (building.Floor, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if f, ok := repo.floors[id]; ok {
		return f, nil
	}
	return building.Floor{}, building.ErrFloorNotFound
}

func (repo *buildingRepository) UpdateFloor(ctx context.Context, flr building.Floor) (building.Floor, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	curr, ok := repo.floors[flr.ID]
	if !ok {
		return building.Floor{}, building.ErrFloorNotFound
	}
	if flr.Number != 0 {
		curr.Number = flr.Number
	}
	if flr.Name != "" {
		curr.Name = flr.Name
	}
	curr.UpdatedAt = flr.UpdatedAt
	repo.floors[curr.ID] = curr
	return curr, nil
}

func (repo *buildingRepository) DeleteFloor(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.floors, id)
	for rid, rm := range repo.rooms {
		if rm.FloorID == id {
			delete(repo.rooms, rid)
		}
	}
	return nil
}

func (repo *buildingRepository) CreateRoom(ctx context.Context, rm building.Room) (building.Room, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	rm.ID = uuid.New().String()
	repo.rooms[rm.ID] = rm
	return rm, nil
}

func (repo *buildingRepository) QueryRoomsByFloorID(ctx context.Context, floorID string) ([]building.Room, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var res []building.Room
	for _, rm := range repo.rooms {
		if rm.FloorID == floorID {
			res = append(res, rm)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].Name < res[j].Name
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (repo *buildingRepository) GetRoomByID(ctx context.Context, id string) (building.Room, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if rm, ok := repo.rooms[id]; ok {
		return rm, nil
	}
	return building.Room{}, building.ErrRoomNotFound
}

func (repo *buildingRepository) UpdateRoom(ctx context.Context, rm building.Room) (building.Room, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	curr, ok := repo.rooms[rm.ID]
	if !ok {
		return building.Room{}, building.ErrRoomNotFound
	}
	curr.Name = rm.Name
	curr.UpdatedAt = rm.UpdatedAt
	repo.rooms[curr.ID] = curr
	return curr, nil
}

func (repo *buildingRepository) DeleteRoom(ctx context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.rooms, id)
	return nil
}
