package main

import (
	"fmt"
	"log"

	"github.com/Keel-foundation/Keel/go/common/interrupt"
	"github.com/Keel-foundation/Keel/go/fs"
	"github.com/urfave/cli/v2"
)

var holdCommand = cli.Command{
	Action: hold,
	Name:   "hold",
	Usage:  "locks a working directory until interrupted",
	Flags: []cli.Flag{
		&storeDirectoryFlag,
	},
}

func hold(ctx *cli.Context) error {
	dir := ctx.String(storeDirectoryFlag.Name)
	registry := fs.NewRegistry()
	lock, acquired, err := fs.LockDirectory(registry, dir)
	if err != nil {
		return err
	}
	if !acquired {
		pid, alive, err := fs.LockHolder(fs.DirectoryLockPath(dir))
		if err != nil {
			return fmt.Errorf("directory %s is locked by another process", dir)
		}
		return fmt.Errorf("directory %s is locked by process %d (alive: %t)", dir, pid, alive)
	}

	log.Printf("Holding lock on %v as process %d, interrupt to release ...", dir, fs.CurrentPid())
	cancelCtx := interrupt.Register(ctx.Context)
	<-cancelCtx.Done()

	log.Printf("Releasing lock on %v ...", dir)
	return lock.Release()
}
