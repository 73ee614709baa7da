package main

import "context"

func (cli *commandLine) sendReminders() error {
	return cli.reminder.Run(context.Background())
}
