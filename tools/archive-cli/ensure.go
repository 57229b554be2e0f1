package main

import (
	"fmt"
	"log"

	"github.com/Keel-foundation/Keel/go/archive"
	"github.com/urfave/cli/v2"
)

var ensureCommand = cli.Command{
	Action: ensure,
	Name:   "ensure",
	Usage:  "materializes the shard directory of an artifact in an archive",
	Flags: []cli.Flag{
		&storeDirectoryFlag,
		&categoryFlag,
		&checkpointFlag,
		&hexFlag,
	},
}

func ensure(ctx *cli.Context) error {
	hexId, err := artifactId(ctx)
	if err != nil {
		return err
	}

	dir := ctx.String(storeDirectoryFlag.Name)
	log.Printf("Opening archive in %v ...", dir)
	store, err := archive.OpenStore(dir)
	if err != nil {
		return err
	}

	path, err := store.EnsureRemoteDir(ctx.String(categoryFlag.Name), hexId)
	if err != nil {
		return err
	}
	fmt.Printf("Shard directory: %s\n", path)
	return nil
}
