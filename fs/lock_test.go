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
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slices"
)

func TestRegistry_LockCanBeAcquiredAndReleased(t *testing.T) {
	registry := NewRegistry()
	path := filepath.Join(t.TempDir(), "instance.lock")

	lock, acquired, err := registry.Acquire(path)
	if err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}
	if !acquired {
		t.Fatalf("a fresh lock should be acquirable")
	}
	if !lock.Valid() {
		t.Errorf("an acquired lock should be valid")
	}
	if want, got := path, lock.Path(); want != got {
		t.Errorf("unexpected lock path: want %s, got %s", want, got)
	}
	if !registry.Held(path) {
		t.Errorf("the registry should report the path as held")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}
	if lock.Valid() {
		t.Errorf("a released lock should not be valid")
	}
	if registry.Held(path) {
		t.Errorf("the registry should no longer report the path as held")
	}
}

func TestRegistry_LockFileRemainsInPlaceAfterRelease(t *testing.T) {
	registry := NewRegistry()
	path := filepath.Join(t.TempDir(), "instance.lock")

	lock, acquired, err := registry.Acquire(path)
	if err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}

	found, err := Exists(path)
	if err != nil {
		t.Fatalf("failed to check lock file: %v", err)
	}
	if !found {
		t.Errorf("the lock file should remain in place after the release")
	}
}

func TestRegistry_AcquiringTheSamePathTwiceIsACallerBug(t *testing.T) {
	registry := NewRegistry()
	path := filepath.Join(t.TempDir(), "instance.lock")

	lock, acquired, err := registry.Acquire(path)
	if err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}

	if _, _, err := registry.Acquire(path); !errors.Is(err, ErrAlreadyLocked) {
		t.Errorf("double acquisition should fail with ErrAlreadyLocked, got %v", err)
	}
	if !lock.Valid() {
		t.Errorf("the first lock should remain valid")
	}
}

func TestRegistry_LockCanBeReacquiredAfterRelease(t *testing.T) {
	registry := NewRegistry()
	path := filepath.Join(t.TempDir(), "instance.lock")

	lock, acquired, err := registry.Acquire(path)
	if err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}

	if _, acquired, err := registry.Acquire(path); err != nil || !acquired {
		t.Errorf("a released lock should be acquirable again, acquired %t, err %v", acquired, err)
	}
}

func TestLock_SecondReleaseFails(t *testing.T) {
	registry := NewRegistry()
	path := filepath.Join(t.TempDir(), "instance.lock")

	lock, acquired, err := registry.Acquire(path)
	if err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}
	if err := lock.Release(); !errors.Is(err, ErrNotLocked) {
		t.Errorf("second release should fail with ErrNotLocked, got %v", err)
	}
}

func TestRegistry_ContentionIsReportedWithoutError(t *testing.T) {
	// The exclusivity of the underlying lock is bound to the open file
	// handle, so a second registry in the same process observes the same
	// contention a second process would.
	first := NewRegistry()
	second := NewRegistry()
	path := filepath.Join(t.TempDir(), "instance.lock")

	lock, acquired, err := first.Acquire(path)
	if err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}

	other, acquired, err := second.Acquire(path)
	if err != nil {
		t.Fatalf("contention must not be reported as an error: %v", err)
	}
	if acquired {
		t.Fatalf("a held lock should not be acquirable")
	}
	if other != nil {
		t.Errorf("no lock should be handed out on contention")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}
	if _, acquired, err := second.Acquire(path); err != nil || !acquired {
		t.Errorf("a released lock should be acquirable, acquired %t, err %v", acquired, err)
	}
}

func TestRegistry_PathSpellingsAreNotNormalized(t *testing.T) {
	// Paths are keyed by their raw spelling. An equivalent spelling of a
	// held path misses the registry entry and reaches the file system,
	// where it is observed as regular contention.
	registry := NewRegistry()
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.lock")
	alias := dir + string(os.PathSeparator) + "." + string(os.PathSeparator) + "instance.lock"

	if _, acquired, err := registry.Acquire(path); err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}

	lock, acquired, err := registry.Acquire(alias)
	if err != nil {
		t.Fatalf("an equivalent spelling must not be reported as an error: %v", err)
	}
	if acquired {
		t.Errorf("an equivalent spelling of a held path should not be acquirable")
	}
	if lock != nil {
		t.Errorf("no lock should be handed out for an equivalent spelling")
	}
}

func TestRegistry_PathsAreListedInOrder(t *testing.T) {
	registry := NewRegistry()
	dir := t.TempDir()

	for _, name := range []string{"c", "a", "b"} {
		if _, acquired, err := registry.Acquire(filepath.Join(dir, name)); err != nil || !acquired {
			t.Fatalf("failed to acquire lock on %s, acquired %t, err %v", name, acquired, err)
		}
	}

	paths := registry.Paths()
	if want, got := 3, len(paths); want != got {
		t.Fatalf("unexpected number of held locks: want %d, got %d", want, got)
	}
	if !slices.IsSorted(paths) {
		t.Errorf("held paths should be listed in order, got %v", paths)
	}
}

func TestRegistry_SetupFailuresAreReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := NewMockSystem(ctrl)

	injectedError := fmt.Errorf("injected error")
	sys.EXPECT().OpenLocked("a").Return(nil, false, injectedError)

	registry := newRegistry(sys)
	if _, _, err := registry.Acquire("a"); !errors.Is(err, injectedError) {
		t.Errorf("setup failure should be reported, got %v", err)
	}
}

func TestLock_ReleaseFailuresAreReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	sys := NewMockSystem(ctrl)
	handle := NewMockLockHandle(ctrl)

	injectedError := fmt.Errorf("injected error")
	sys.EXPECT().OpenLocked("a").Return(handle, true, nil)
	handle.EXPECT().Close().Return(injectedError)

	registry := newRegistry(sys)
	lock, acquired, err := registry.Acquire("a")
	if err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}
	if err := lock.Release(); !errors.Is(err, injectedError) {
		t.Errorf("release failure should be reported, got %v", err)
	}
	if registry.Held("a") {
		t.Errorf("the registry entry should be removed even if closing fails")
	}
}

func TestRegistry_GovernsExclusiveAccessWithinProcess(t *testing.T) {
	const N = 8
	path := filepath.Join(t.TempDir(), "lock")
	timesAcquired := atomic.Int32{}
	numOwners := atomic.Int32{}

	var wg sync.WaitGroup
	wg.Add(N)
	for i := 0; i < N; i++ {
		go func() {
			defer wg.Done()
			registry := NewRegistry()
			for j := 0; j < 100; j++ {
				lock, acquired, err := registry.Acquire(path)
				if err != nil {
					t.Errorf("failed to acquire lock: %v", err)
					return
				}
				if !acquired {
					continue
				}
				timesAcquired.Add(1)
				if owners := numOwners.Add(1); owners > 1 {
					t.Errorf("invalid number of lock owners: %d", owners)
				}
				numOwners.Add(-1)
				if err := lock.Release(); err != nil {
					t.Errorf("failed to release lock: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if timesAcquired.Load() < 1 {
		t.Errorf("lock was never acquired")
	}
}

func TestRegistry_HeldLockIsObservedAsContentionByOtherProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	holder := startLockHolder(t, path)
	defer stopLockHolder(t, holder)

	registry := NewRegistry()
	_, acquired, err := registry.Acquire(path)
	if err != nil {
		t.Fatalf("contention must not be reported as an error: %v", err)
	}
	if acquired {
		t.Errorf("a lock held by another process should not be acquirable")
	}
}

func TestRegistry_DyingProcessReleasesItsLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	holder := startLockHolder(t, path)

	// The holder is killed without any chance to release its lock.
	if err := holder.Process.Kill(); err != nil {
		t.Fatalf("failed to kill lock-holding process: %v", err)
	}
	_ = holder.Wait()

	registry := NewRegistry()
	_, acquired, err := registry.Acquire(path)
	if err != nil {
		t.Fatalf("failed to acquire lock of a dead process: %v", err)
	}
	if !acquired {
		t.Errorf("the lock of a killed process should be acquirable")
	}
}

func TestLockDirectory_GuardsAgainstASecondInstance(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "node", "data")
	registry := NewRegistry()

	lock, acquired, err := LockDirectory(registry, dir)
	if err != nil || !acquired {
		t.Fatalf("failed to lock directory, acquired %t, err %v", acquired, err)
	}
	found, err := Exists(dir)
	if err != nil || !found {
		t.Errorf("the locked directory should have been created, found %t, err %v", found, err)
	}

	second := NewRegistry()
	if _, acquired, err := LockDirectory(second, dir); err != nil || acquired {
		t.Errorf("a locked directory should not be lockable again, acquired %t, err %v", acquired, err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("failed to release directory lock: %v", err)
	}
	if _, acquired, err := LockDirectory(second, dir); err != nil || !acquired {
		t.Errorf("a released directory should be lockable, acquired %t, err %v", acquired, err)
	}
}

func TestLockHolder_IdentifiesALivingOwner(t *testing.T) {
	registry := NewRegistry()
	path := filepath.Join(t.TempDir(), "lock")

	if _, acquired, err := registry.Acquire(path); err != nil || !acquired {
		t.Fatalf("failed to acquire lock, acquired %t, err %v", acquired, err)
	}

	pid, alive, err := LockHolder(path)
	if err != nil {
		t.Fatalf("failed to inspect lock file: %v", err)
	}
	if want, got := CurrentPid(), pid; want != got {
		t.Errorf("unexpected owner: want %d, got %d", want, got)
	}
	if !alive {
		t.Errorf("the owning process should be reported as alive")
	}
}

func TestLockHolder_IdentifiesADeadOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	holder := startLockHolder(t, path)
	pid := holder.Process.Pid
	stopLockHolder(t, holder)

	owner, alive, err := LockHolder(path)
	if err != nil {
		t.Fatalf("failed to inspect lock file: %v", err)
	}
	if want, got := pid, owner; want != got {
		t.Errorf("unexpected owner: want %d, got %d", want, got)
	}
	if alive {
		t.Errorf("a dead owner should not be reported as alive")
	}
}

func TestLockHolder_MissingLockFileIsAnError(t *testing.T) {
	_, _, err := LockHolder(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLockHolder_UnreadableContentIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	if err := os.WriteFile(path, []byte("not a pid"), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if _, _, err := LockHolder(path); err == nil {
		t.Errorf("a lock file without an owner record should be rejected")
	}
}

var holdLockPath = flag.String("hold_lock_path", "NONE", "the path to the file lock to be held by a helper process")

func TestLockHelper_HoldLockUntilKilled(t *testing.T) {
	// This test is a helper for the cross-process tests above. It is run in
	// a sub-process, acquires the given lock, and holds it until killed.
	path := *holdLockPath
	if path == "NONE" {
		return
	}
	registry := NewRegistry()
	_, acquired, err := registry.Acquire(path)
	if err != nil || !acquired {
		t.Fatalf("helper failed to acquire lock on %s, acquired %t, err %v", path, acquired, err)
	}
	fmt.Println("locked")
	time.Sleep(time.Minute)
}

// startLockHolder spawns a sub-process holding a lock on the given path and
// waits until the lock is in place.
func startLockHolder(t *testing.T, path string) *exec.Cmd {
	t.Helper()
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to resolve path to test binary: %v", err)
	}

	cmd := exec.Command(executable, "-test.run", "TestLockHelper_HoldLockUntilKilled", "-hold_lock_path="+path)
	out, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("failed to connect to helper output: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start lock-holding process: %v", err)
	}

	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		if scanner.Text() == "locked" {
			return cmd
		}
	}
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	t.Fatalf("helper process terminated without acquiring the lock")
	return nil
}

func stopLockHolder(t *testing.T, cmd *exec.Cmd) {
	t.Helper()
	if err := cmd.Process.Kill(); err != nil {
		t.Fatalf("failed to stop lock-holding process: %v", err)
	}
	_ = cmd.Wait()
}
