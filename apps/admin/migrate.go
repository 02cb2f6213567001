package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/storage/database"
)

var gooseRunFunc = database.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.openDB()
	if err != nil {
		return errors.Wrap(err, "opening sessions database")
	}
	defer db.Close()

	return gooseRunFunc(args[0], db, args[1:]...)
}
