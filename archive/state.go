// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package archive

import (
	"fmt"
	"path/filepath"

	"github.com/Keel-foundation/Keel/go/common"
)

const (
	// stateFileName is the name of the bookkeeping manifest kept at the
	// root of every store.
	stateFileName = "state.json"
	// storeVersion is the layout version written into new manifests.
	// Stores carrying a different version are rejected when opened.
	storeVersion = 1
)

// ErrUnsupportedVersion is reported when a store was written by an
// incompatible version of this software.
const ErrUnsupportedVersion = common.ConstError("unsupported store version")

// State is the bookkeeping record kept at the root of a store.
type State struct {
	// Version identifies the on-disk layout of the store.
	Version int `json:"version"`
	// Latest is the highest checkpoint recorded as complete.
	Latest Checkpoint `json:"latest"`
}

func readState(root string) (State, error) {
	state, err := common.ReadJsonFile[State](filepath.Join(root, stateFileName))
	if err != nil {
		return State{}, fmt.Errorf("failed to read store state: %w", err)
	}
	return state, nil
}

func writeState(root string, state State) error {
	if err := common.WriteJsonFile(filepath.Join(root, stateFileName), state); err != nil {
		return fmt.Errorf("failed to write store state: %w", err)
	}
	return nil
}
