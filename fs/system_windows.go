// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

//go:build windows

package fs

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// OpenLocked places an exclusive LockFileEx lock covering the whole file.
// The system drops the lock when the owning process terminates without
// releasing it.
func (osSystem) OpenLocked(path string) (LockHandle, bool, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, false, err
	}
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	err = windows.LockFileEx(windows.Handle(file.Fd()), flags, 0, ^uint32(0), ^uint32(0), new(windows.Overlapped))
	if err != nil {
		closeErr := file.Close()
		if err == windows.ERROR_LOCK_VIOLATION {
			return nil, false, closeErr
		}
		return nil, false, errors.Join(err, closeErr)
	}
	if err := stampOwner(file); err != nil {
		return nil, false, errors.Join(err, file.Close())
	}
	return &windowsLock{file: file}, true, nil
}

// windowsLock releases the region lock explicitly before closing the file.
// Relying on the handle close alone would release the lock with a delay,
// breaking release-then-reacquire sequences.
type windowsLock struct {
	file *os.File
}

func (l *windowsLock) Close() error {
	err := windows.UnlockFileEx(windows.Handle(l.file.Fd()), 0, ^uint32(0), ^uint32(0), new(windows.Overlapped))
	return errors.Join(err, l.file.Close())
}

// stillActive is the exit code reported by GetExitCodeProcess for a
// process that has not terminated yet, the Win32 STILL_ACTIVE value.
const stillActive uint32 = 259

// ProcessAlive reports whether the process with the given ID can be opened
// and has not terminated yet.
func (osSystem) ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)
	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == stillActive
}
