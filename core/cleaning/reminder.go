package cleaning

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core"
	"github.com/virtuex/arbes/core/rotation"
	"github.com/virtuex/arbes/core/user"
)

// finalDaysWindow is how close to a period's end an incomplete cleaning
// triggers a heads-up to the next room.
const finalDaysWindow = 3

type Reminder struct {
	cleaningSvc *Service
	userSvc     *user.Service
	mailSvc     core.EmailService
	logger      core.Logger
}

func NewReminder(cleaningSvc *Service, userSvc *user.Service, mailSvc core.EmailService, logger core.Logger) *Reminder {
	return &Reminder{
		cleaningSvc: cleaningSvc,
		userSvc:     userSvc,
		mailSvc:     mailSvc,
		logger:      logger,
	}
}

// Run emails every floor whose current cleaning is still open: the assigned
// room gets a reminder, and near the period's end the next room gets a
// heads-up about their upcoming turn. Floors with errors are logged and
// skipped so one bad floor does not silence the rest.
func (r *Reminder) Run(ctx context.Context) error {
	all, err := r.cleaningSvc.repo.QueryAllSettings(ctx)
	if err != nil {
		return errors.Wrap(err, "querying cleaning settings")
	}

	var messages []*core.EmailMessage
	for _, s := range all {
		msgs, err := r.floorReminders(ctx, s.FloorID)
		if err != nil {
			r.logger.Error(fmt.Sprintf("cleaning reminders for floor %s: %v", s.FloorID, err))
			continue
		}
		messages = append(messages, msgs...)
	}

	if len(messages) > 0 {
		r.mailSvc.SendMessages(messages...)
	}
	return nil
}

func (r *Reminder) floorReminders(ctx context.Context, floorID string) ([]*core.EmailMessage, error) {
	now := NowFunc()
	s, err := r.cleaningSvc.applyPendingIfDue(ctx, floorID, now)
	if err != nil {
		return nil, err
	}
	rot, err := r.cleaningSvc.repo.QueryRotation(ctx, floorID)
	if err != nil {
		return nil, err
	}
	if len(rot) == 0 {
		return nil, nil
	}

	period := rotation.CurrentPeriod(s.Frequency, now)
	if _, err := r.cleaningSvc.repo.GetRecordByPeriod(ctx, floorID, period.String()); err == nil {
		return nil, nil // already done, nothing to nag about
	} else if errors.Cause(err) != ErrRecordNotFound {
		return nil, err
	}

	var messages []*core.EmailMessage
	roomID := rot[rotation.AssignedIndex(len(rot), period.String())].RoomID
	msg, err := r.roomMessage(ctx, roomID, "cleaning-reminder", period, now)
	if err != nil {
		return nil, err
	}
	if msg != nil {
		messages = append(messages, msg)
	}

	if rotation.InFinalDays(period, now, finalDaysWindow) {
		next := period.Next()
		nextRoomID := rot[rotation.AssignedIndex(len(rot), next.String())].RoomID
		if nextRoomID != roomID {
			msg, err := r.roomMessage(ctx, nextRoomID, "cleaning-upcoming", next, now)
			if err != nil {
				return nil, err
			}
			if msg != nil {
				messages = append(messages, msg)
			}
		}
	}
	return messages, nil
}

func (r *Reminder) roomMessage(ctx context.Context, roomID, template string, p rotation.Period, now time.Time) (*core.EmailMessage, error) {
	residents, err := r.userSvc.GetByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(residents) == 0 {
		return nil, nil
	}

	to := make([]mail.Address, 0, len(residents))
	for _, usr := range residents {
		if usr.IsActive {
			to = append(to, mail.Address{Name: usr.FullName(), Address: usr.Email})
		}
	}
	if len(to) == 0 {
		return nil, nil
	}

	return &core.EmailMessage{
		To:           to,
		Subject:      fmt.Sprintf("%s - Cleaning duty %s", core.Conf.AppName, p.String()),
		TemplateName: template,
		TemplateData: struct {
			Period      string
			PeriodRange string
		}{
			Period:      p.String(),
			PeriodRange: rotation.FormatPeriod(p.String(), now.Location()),
		},
	}, nil
}
