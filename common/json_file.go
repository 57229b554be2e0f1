// Copyright (c) 2025 Keel Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at keel.foundation/bsl11.
//
// Change Date: 2029-3-01
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/json"
	"os"
)

// ReadJsonFile reads a JSON file and unmarshals it into a value of type T.
func ReadJsonFile[T any](file string) (T, error) {
	var zero T
	data, err := os.ReadFile(file)
	if err != nil {
		return zero, err
	}
	var res T
	if err := json.Unmarshal(data, &res); err != nil {
		return zero, err
	}
	return res, nil
}

// WriteJsonFile marshals a value of type T into a JSON file. The file is
// replaced atomically through a rename, so that readers never observe a
// half-written file.
func WriteJsonFile[T any](file string, data T) error {
	content, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, content, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, file)
}
