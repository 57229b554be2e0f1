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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Keel-foundation/Keel/go/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// ErrAlreadyLocked is reported when a registry is asked to lock a path
	// it is holding already. Attempting to lock the same resource twice is
	// a bug in the calling logic, not a transient condition.
	ErrAlreadyLocked = common.ConstError("file is already locked by this process")
	// ErrNotLocked is reported when a lock is released more than once.
	ErrNotLocked = common.ConstError("file was not locked")
)

// lockFileName is the name of the lock file guarding a working directory.
const lockFileName = "~lock"

// Registry tracks the advisory file locks held by a process, at most one
// per path. Locks obtained through a registry are exclusive between
// processes, non-blocking to acquire, and backed by the operating system,
// so a lock left behind by a dying process is released automatically.
// Registries are safe for concurrent use.
type Registry struct {
	system System
	mutex  sync.Mutex
	locks  map[string]*Lock
}

// NewRegistry creates an empty lock registry for the local file system.
func NewRegistry() *Registry {
	return newRegistry(defaultSystem)
}

func newRegistry(sys System) *Registry {
	return &Registry{system: sys, locks: map[string]*Lock{}}
}

// Acquire attempts to obtain an exclusive advisory lock on the file with
// the given path, creating the file if needed. On success the returned lock
// is recorded in the registry until released. If another process is holding
// the lock, (nil, false, nil) is returned; contention is a regular outcome,
// not an error. If this registry is already holding the path, the operation
// fails with ErrAlreadyLocked. Paths are keyed by their raw spelling
// without any cleaning, so an equivalent spelling of a held path is
// observed as contention rather than ErrAlreadyLocked.
func (r *Registry) Acquire(path string) (*Lock, bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, found := r.locks[path]; found {
		return nil, false, fmt.Errorf("%w: %s", ErrAlreadyLocked, path)
	}
	handle, acquired, err := r.system.OpenLocked(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !acquired {
		return nil, false, nil
	}
	lock := &Lock{registry: r, path: path, handle: handle}
	r.locks[path] = lock
	return lock, true, nil
}

// Held determines whether this registry is currently holding a lock on the
// given path.
func (r *Registry) Held(path string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	_, found := r.locks[path]
	return found
}

// Paths lists the paths of all locks currently held by this registry, in
// lexicographic order.
func (r *Registry) Paths() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	paths := maps.Keys(r.locks)
	slices.Sort(paths)
	return paths
}

// Lock is an exclusive advisory lock on a single file, held by the registry
// that created it. Each lock is released exactly once.
type Lock struct {
	registry *Registry
	path     string
	handle   LockHandle
}

// Path returns the path of the locked file.
func (l *Lock) Path() string {
	return l.path
}

// Valid determines whether this lock is still held or has been released.
func (l *Lock) Valid() bool {
	l.registry.mutex.Lock()
	defer l.registry.mutex.Unlock()
	return l.handle != nil
}

// Release gives up the lock and removes it from its registry. Releasing a
// lock a second time fails with ErrNotLocked. The backing file is
// intentionally left in place, removing it would race with another process
// acquiring a lock on the same path.
func (l *Lock) Release() error {
	l.registry.mutex.Lock()
	defer l.registry.mutex.Unlock()
	if l.handle == nil {
		return fmt.Errorf("%w: %s", ErrNotLocked, l.path)
	}
	handle := l.handle
	l.handle = nil
	delete(l.registry.locks, l.path)
	if err := handle.Close(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// LockDirectory acquires an exclusive lock on the given working directory,
// creating the directory if needed. It is the single-instance guard of a
// node: the second process attempting to use the same directory observes
// the lock as taken. The reported flag and error follow Registry.Acquire.
func LockDirectory(registry *Registry, directory string) (*Lock, bool, error) {
	if err := MkPath(directory); err != nil {
		return nil, false, err
	}
	return registry.Acquire(filepath.Join(directory, lockFileName))
}

// DirectoryLockPath returns the path of the lock file guarding the given
// working directory.
func DirectoryLockPath(directory string) string {
	return filepath.Join(directory, lockFileName)
}

// LockHolder inspects the lock file with the given path and reports the ID
// of the process that last acquired it, together with whether that process
// is still alive. It allows a stale lock file left behind by a dead process
// to be told apart from one whose owner is running.
func LockHolder(path string) (pid int, alive bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read lock file %s: %w", path, err)
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, fmt.Errorf("lock file %s does not name an owning process: %w", path, err)
	}
	return pid, ProcessExists(pid), nil
}
