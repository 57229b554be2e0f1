// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package fs provides the file-system utilities of a Keel node: existence
// checks and idempotent directory creation, recursive deletion, advisory
// file locking scoped to the operating system, and process liveness probes.
// Paths use '/' as the separator; callers on platforms with a different
// native separator are expected to translate at the boundary.
package fs

import (
	"errors"
	"fmt"
	"os"
)

// Exists determines whether a file-system entry with the given path exists.
// The empty path does not exist. Failures other than the entry being absent
// are reported as errors and must not be mistaken for absence.
func Exists(path string) (bool, error) {
	return exists(defaultSystem, path)
}

// MkDir creates a single directory level with owner-only access rights. The
// result indicates whether the directory was created; creating an existing
// directory fails and reports false, which callers treat as non-fatal.
func MkDir(path string) bool {
	return mkdir(defaultSystem, path)
}

// MkPath creates the directory with the given path including all missing
// parent directories, walking the '/'-separated prefixes left to right. The
// operation is idempotent and tolerates other processes concurrently
// creating the same directories.
func MkPath(path string) error {
	return mkpath(defaultSystem, path)
}

// DelTree removes the entry with the given path and, in case of a
// directory, everything it contains, children before parents. Removing a
// missing path is an error. If the operation fails partway, the tree may be
// left partially deleted; no resumption is attempted.
func DelTree(path string) error {
	return deltree(defaultSystem, path)
}

func exists(sys System, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := sys.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	return true, nil
}

func mkdir(sys System, path string) bool {
	return sys.Mkdir(path, 0700) == nil
}

func mkpath(sys System, path string) error {
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' {
			continue
		}
		prefix := path[:i]
		if prefix == "" {
			continue
		}
		if err := ensureDir(sys, prefix); err != nil {
			return err
		}
	}
	return nil
}

// ensureDir makes sure a directory with the given path exists. Concurrent
// callers racing to create the same directory are tolerated, only one of
// them can succeed creating it while the others observe it as present.
func ensureDir(sys System, path string) error {
	if found, err := exists(sys, path); err != nil || found {
		return err
	}
	if err := sys.Mkdir(path, 0700); err != nil {
		// The directory may have appeared since the check above.
		if found, statErr := exists(sys, path); statErr == nil && found {
			return nil
		}
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

func deltree(sys System, path string) error {
	if _, err := sys.Stat(path); err != nil {
		return fmt.Errorf("failed to remove directory tree %s: %w", path, err)
	}
	if err := sys.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove directory tree %s: %w", path, err)
	}
	return nil
}
