package building

import (
	"time"

	"github.com/virtuex/arbes/core"
)

// Floor is one storey of the building; the unit the cleaning rotation is
// scoped to.
type Floor struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Room belongs to a floor and houses residents.
type Room struct {
	ID        string    `json:"id"`
	FloorID   string    `json:"floor_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewFloor struct {
	Number int    `json:"number" validate:"required,min=1"`
	Name   string `json:"name" validate:"required"`
}

func (nf *NewFloor) Validate() error {
	nf.Name = core.CleanString(nf.Name)
	return core.Validate.Struct(nf)
}

type UpdateFloor struct {
	Number int    `json:"number" validate:"omitempty,min=1"`
	Name   string `json:"name"`
}

func (uf *UpdateFloor) Validate(orig Floor) error {
	if name := core.CleanString(uf.Name); name != "" {
		uf.Name = name
	} else {
		uf.Name = orig.Name
	}
	if uf.Number == 0 {
		uf.Number = orig.Number
	}
	return core.Validate.Struct(uf)
}

type NewRoom struct {
	FloorID string `json:"floor_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
}

func (nr *NewRoom) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	return core.Validate.Struct(nr)
}

type UpdateRoom struct {
	Name string `json:"name" validate:"required"`
}

func (ur *UpdateRoom) Validate() error {
	ur.Name = core.CleanString(ur.Name)
	return core.Validate.Struct(ur)
}
