package cleaning

import (
	"time"

	"github.com/virtuex/arbes/core"
	"github.com/virtuex/arbes/core/rotation"
)

type (
	// Settings holds a floor's cleaning configuration. A scheduled frequency
	// change is kept alongside the active frequency until its start period
	// begins, at which point it is folded in.
	Settings struct {
		FloorID           string              `json:"floor_id"`
		Frequency         rotation.Frequency  `json:"frequency"`
		PendingFrequency  *rotation.Frequency `json:"pending_frequency,omitempty"`
		PendingFromPeriod *string             `json:"pending_from_period,omitempty"`
		UpdatedAt         time.Time           `json:"updated_at"`
	}

	// RotationEntry pins a room to a position in a floor's rotation order.
	RotationEntry struct {
		ID        string    `json:"id"`
		FloorID   string    `json:"floor_id"`
		RoomID    string    `json:"room_id"`
		Position  int       `json:"position"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// Record is a completed cleaning for one period on one floor.
	Record struct {
		ID          string    `json:"id"`
		FloorID     string    `json:"floor_id"`
		RoomID      string    `json:"room_id"`
		UserID      string    `json:"user_id"`
		Period      string    `json:"period"`
		Photos      []string  `json:"photos,omitempty"`
		CompletedAt time.Time `json:"completed_at"`
	}

	CompleteCleaning struct {
		Photos []string `json:"photos" validate:"omitempty,max=10,dive,url"`
	}

	ChangeFrequency struct {
		Frequency rotation.Frequency `json:"frequency" validate:"required"`
	}

	ReorderRotation struct {
		RoomIDs []string `json:"room_ids" validate:"required,min=1,unique,dive,required"`
	}
)

// HasPending reports whether a frequency change is scheduled.
func (s Settings) HasPending() bool {
	return s.PendingFrequency != nil && s.PendingFromPeriod != nil
}

func (cc CompleteCleaning) Validate() error {
	return core.Validate.Struct(cc)
}

func (cf ChangeFrequency) Validate() error {
	if err := core.Validate.Struct(cf); err != nil {
		return err
	}
	if !cf.Frequency.Valid() {
		return core.NewValidationError(rotation.ErrUnknownFrequency, core.FieldError{Field: "frequency", Error: "invalid value"})
	}
	return nil
}

func (rr ReorderRotation) Validate() error {
	return core.Validate.Struct(rr)
}
