// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fs

import (
	"os"
	"strconv"
)

//go:generate mockgen -source system.go -destination system_mocks.go -package fs

// System provides the operating-system primitives this package builds on.
// There is one implementation per target platform, selected at build time,
// all offering identical externally observable contracts. The interface is
// provided to enable mocking of failures that are hard to provoke through
// the real file system.
type System interface {
	// Stat retrieves information on the file-system entry with the given
	// path. A missing entry is reported through an error matching
	// os.ErrNotExist.
	Stat(path string) (os.FileInfo, error)
	// Mkdir creates a single directory with the given permissions. The
	// parent directory must already exist, and the target must not.
	Mkdir(path string, perm os.FileMode) error
	// RemoveAll deletes the entry with the given path and, in case of a
	// directory, everything it contains. Deleting a missing path is not an
	// error.
	RemoveAll(path string) error
	// OpenLocked opens the file with the given path, creating it if needed,
	// and attempts to place an exclusive, non-blocking lock on it. The
	// second result indicates whether the lock was obtained; false without
	// an error means another holder currently owns it. An obtained lock is
	// released by closing the handle, or by the operating system when the
	// owning process terminates.
	OpenLocked(path string) (LockHandle, bool, error)
	// ProcessAlive determines whether a process with the given ID is
	// currently running and visible to this process.
	ProcessAlive(pid int) bool
}

// LockHandle is an open file holding an exclusive operating-system lock.
// Closing the handle releases the lock while leaving the file in place.
type LockHandle interface {
	Close() error
}

// osSystem implements System using the local operating system. The portable
// operations are defined here, locking and process probing in the
// platform-specific files of this package.
type osSystem struct{}

// defaultSystem is the System backing the package-level operations.
var defaultSystem System = osSystem{}

func (osSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (osSystem) Mkdir(path string, perm os.FileMode) error {
	return os.Mkdir(path, perm)
}

func (osSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// stampOwner records the ID of the calling process in the given lock file.
// The content is purely informational, the lock itself is carried by the
// open handle.
func stampOwner(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		return err
	}
	return file.Sync()
}
