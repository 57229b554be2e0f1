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

import "os"

// CurrentPid returns the operating-system identifier of the calling
// process. The value is stable for the lifetime of the process.
func CurrentPid() int {
	return os.Getpid()
}

// ProcessExists determines whether a process with the given ID is currently
// running on the local machine. A negative result may mean that the process
// does not exist or that it is not visible to the current user; the two
// cases are not distinguished.
func ProcessExists(pid int) bool {
	return defaultSystem.ProcessAlive(pid)
}
