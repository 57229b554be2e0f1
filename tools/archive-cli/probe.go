package main

import (
	"fmt"

	"github.com/Keel-foundation/Keel/go/fs"
	"github.com/urfave/cli/v2"
)

var (
	pidFlag = cli.IntFlag{
		Name:  "pid",
		Usage: "the ID of the process to probe",
	}
	lockedDirectoryFlag = cli.StringFlag{
		Name:  "locked-dir",
		Usage: "the working directory whose lock should be inspected",
	}
)

var probeCommand = cli.Command{
	Action: probe,
	Name:   "probe",
	Usage:  "reports whether a process or the holder of a directory lock is alive",
	Flags: []cli.Flag{
		&pidFlag,
		&lockedDirectoryFlag,
	},
}

func probe(ctx *cli.Context) error {
	if ctx.IsSet(pidFlag.Name) {
		pid := ctx.Int(pidFlag.Name)
		fmt.Printf("Process %d alive: %t\n", pid, fs.ProcessExists(pid))
		return nil
	}
	if dir := ctx.String(lockedDirectoryFlag.Name); dir != "" {
		pid, alive, err := fs.LockHolder(fs.DirectoryLockPath(dir))
		if err != nil {
			return err
		}
		fmt.Printf("Lock owner: %d\n", pid)
		fmt.Printf("Owner alive: %t\n", alive)
		return nil
	}
	return fmt.Errorf("either --%s or --%s must be given", pidFlag.Name, lockedDirectoryFlag.Name)
}
