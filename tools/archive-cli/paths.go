package main

import (
	"fmt"

	"github.com/Keel-foundation/Keel/go/archive"
	"github.com/urfave/cli/v2"
)

var (
	suffixFlag = cli.StringFlag{
		Name:  "suffix",
		Usage: "the artifact file suffix",
		Value: "xdr.gz",
	}
)

var getPathsCommand = cli.Command{
	Action: getPaths,
	Name:   "paths",
	Usage:  "prints the archive positions derived for an artifact",
	Flags: []cli.Flag{
		&categoryFlag,
		&suffixFlag,
		&checkpointFlag,
		&hexFlag,
	},
}

func getPaths(ctx *cli.Context) error {
	hexId, err := artifactId(ctx)
	if err != nil {
		return err
	}
	category := ctx.String(categoryFlag.Name)
	suffix := ctx.String(suffixFlag.Name)

	shard, err := archive.ShardDir(hexId)
	if err != nil {
		return err
	}
	remoteDir, err := archive.RemoteDir(category, hexId)
	if err != nil {
		return err
	}
	remoteName, err := archive.RemoteName(category, hexId, suffix)
	if err != nil {
		return err
	}

	fmt.Printf("Base name:   %s\n", archive.BaseName(category, hexId, suffix))
	fmt.Printf("Shard dir:   %s\n", shard)
	fmt.Printf("Remote dir:  %s\n", remoteDir)
	fmt.Printf("Remote name: %s\n", remoteName)
	return nil
}
