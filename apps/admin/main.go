package main

import (
	"log"
	"os"

	"github.com/virtuex/arbes/core"
	"github.com/virtuex/arbes/core/building"
	"github.com/virtuex/arbes/core/cleaning"
	"github.com/virtuex/arbes/core/user"
	emailsvc "github.com/virtuex/arbes/services/email"
	logsvc "github.com/virtuex/arbes/services/logger"
	"github.com/virtuex/arbes/storage/database"
	sqlxrepos "github.com/virtuex/arbes/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// set up services
	appLogger := logsvc.NewRollbarLogger(logger, core.Conf)
	appLogger.Enable(!(core.Conf.Debug || core.Conf.TestMode))

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	bldSvc := building.NewService(sqlxrepos.NewBuildingRepository(db))
	cleaningSvc := cleaning.NewService(sqlxrepos.NewCleaningRepository(db), bldSvc)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		usrSvc:   usrSvc,
		reminder: cleaning.NewReminder(cleaningSvc, usrSvc, mailSvc, appLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
