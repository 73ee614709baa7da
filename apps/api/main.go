package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/virtuex/arbes/apps/api/echo"
	"github.com/virtuex/arbes/core"
	"github.com/virtuex/arbes/core/building"
	"github.com/virtuex/arbes/core/cleaning"
	"github.com/virtuex/arbes/core/user"
	emailsvc "github.com/virtuex/arbes/services/email"
	logsvc "github.com/virtuex/arbes/services/logger"
	"github.com/virtuex/arbes/storage/database"
	sqlxrepos "github.com/virtuex/arbes/storage/database/sqlx"
)

const shutdownTimeout = 5 * time.Second

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!(core.Conf.Debug || core.Conf.TestMode))

	if err := run(logger); err != nil {
		logger.Fatal("api server error", err)
	}
}

func run(logger core.Logger) error {
	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return err
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	defer db.Close()
	if err = database.Migrate(db.DB); err != nil {
		return err
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	bldSvc := building.NewService(sqlxrepos.NewBuildingRepository(db))
	cleaningSvc := cleaning.NewService(sqlxrepos.NewCleaningRepository(db), bldSvc)
	reminder := cleaning.NewReminder(cleaningSvc, usrSvc, mailSvc, logger)

	// schedule reminder emails
	sched := cron.New()
	if _, err = sched.AddFunc(core.Conf.ReminderSchedule, func() {
		if err := reminder.Run(context.Background()); err != nil {
			logger.Error("running cleaning reminders", err)
		}
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		core.Conf.Server.Address(),
		shutdown,
		&echoapi.Deps{
			UserSvc:     usrSvc,
			BuildingSvc: bldSvc,
			CleaningSvc: cleaningSvc,
			Reminder:    reminder,
			Logger:      logger,
		},
	)

	serverErrors := make(chan error, 1)
	go func() { serverErrors <- app.Start() }()

	logger.Info("server started on " + core.Conf.Server.Address())

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("shutting down: " + sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
