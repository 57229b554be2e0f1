package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/Keel-foundation/Keel/go/archive"
	"github.com/Keel-foundation/Keel/go/common/interrupt"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	cpuProfilingFlag = cli.StringFlag{
		Name:  "cpu-profile",
		Usage: "enable the recording of a CPU profile",
	}
	catalogDirectoryFlag = cli.StringFlag{
		Name:  "catalog",
		Usage: "the directory of the catalog to rebuild, defaults to <dir>/.catalog",
	}
)

var scanCommand = cli.Command{
	Action: scan,
	Name:   "scan",
	Usage:  "walks an archive directory and rebuilds its artifact catalog",
	Flags: []cli.Flag{
		&storeDirectoryFlag,
		&catalogDirectoryFlag,
		&cpuProfilingFlag,
	},
}

func scan(ctx *cli.Context) (err error) {

	profileTarget := ctx.String(cpuProfilingFlag.Name)
	if len(profileTarget) != 0 {
		if err := StartCPUProfile(profileTarget); err != nil {
			return err
		}
		defer StopCPUProfile()
	}

	dir := ctx.String(storeDirectoryFlag.Name)
	log.Printf("Opening archive in %v ...", dir)
	store, err := archive.OpenStore(dir)
	if err != nil {
		return err
	}

	catalogDir := ctx.String(catalogDirectoryFlag.Name)
	if catalogDir == "" {
		catalogDir = filepath.Join(dir, ".catalog")
	}
	log.Printf("Opening catalog in %v ...", catalogDir)
	catalog, err := archive.OpenCatalog(catalogDir)
	if err != nil {
		return err
	}
	defer func() {
		log.Printf("Closing catalog in %v ...", catalogDir)
		if closeError := catalog.Close(); closeError != nil {
			if err == nil {
				err = closeError
			} else {
				log.Printf("Failure closing catalog: %v", closeError)
			}
		}
	}()

	cancelCtx := interrupt.Register(ctx.Context)

	log.Printf("Scanning archive ...")
	start := time.Now()
	counts := map[string]int{}
	totalSize := int64(0)
	err = store.Walk(func(entry archive.Entry) error {
		if interrupt.IsCancelled(cancelCtx) {
			return interrupt.ErrCanceled
		}
		if err := catalog.Put(entry); err != nil {
			return err
		}
		counts[entry.Category]++
		totalSize += entry.Size
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("Scanning took %.1f seconds", time.Since(start).Seconds())

	categories := maps.Keys(counts)
	slices.Sort(categories)
	for _, category := range categories {
		fmt.Printf("%s: %d artifacts\n", category, counts[category])
	}
	fmt.Printf("Total size: %d bytes\n", totalSize)
	return nil
}
