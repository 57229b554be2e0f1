// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

//go:build !windows

package fs

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// OpenLocked places an exclusive flock on the file with the given path. The
// kernel drops the lock when the last handle to it is closed, in particular
// when the owning process dies without releasing it.
func (osSystem) OpenLocked(path string) (LockHandle, bool, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, false, err
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		closeErr := file.Close()
		if err == unix.EWOULDBLOCK || err == unix.EAGAIN {
			return nil, false, closeErr
		}
		return nil, false, errors.Join(err, closeErr)
	}
	if err := stampOwner(file); err != nil {
		return nil, false, errors.Join(err, file.Close())
	}
	return file, true, nil
}

// ProcessAlive probes the process with a null signal. Kernel-side delivery
// checks run without an actual signal being sent.
func (osSystem) ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
