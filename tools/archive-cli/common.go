package main

import (
	"fmt"
	"math"
	"os"
	"runtime/pprof"

	"github.com/Keel-foundation/Keel/go/archive"
	"github.com/urfave/cli/v2"
)

var (
	storeDirectoryFlag = cli.StringFlag{
		Name:     "dir",
		Usage:    "the targeted archive directory",
		Required: true,
	}
	categoryFlag = cli.StringFlag{
		Name:  "category",
		Usage: "the artifact category",
		Value: archive.CategoryLedger,
	}
	checkpointFlag = cli.Uint64Flag{
		Name:  "checkpoint",
		Usage: "the checkpoint sequence number of the artifact",
	}
	hexFlag = cli.StringFlag{
		Name:  "hex",
		Usage: "the hexadecimal identifier of the artifact",
	}
)

// artifactId resolves the artifact identifier addressed by the command line,
// either a hexadecimal identifier given directly or one derived from a
// checkpoint sequence number.
func artifactId(ctx *cli.Context) (string, error) {
	if ctx.IsSet(hexFlag.Name) {
		return ctx.String(hexFlag.Name), nil
	}
	if ctx.IsSet(checkpointFlag.Name) {
		number := ctx.Uint64(checkpointFlag.Name)
		if number > math.MaxUint32 {
			return "", fmt.Errorf("checkpoint %d is out of range", number)
		}
		return archive.Checkpoint(number).Hex(), nil
	}
	return "", fmt.Errorf("either --%s or --%s must be given", checkpointFlag.Name, hexFlag.Name)
}

func StartCPUProfile(profileName string) error {
	f, err := os.Create(profileName)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %s", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("could not start CPU profile: %s", err)
	}
	return nil
}

func StopCPUProfile() {
	pprof.StopCPUProfile()
}
