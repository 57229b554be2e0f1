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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Keel-foundation/Keel/go/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is reported when a requested artifact is not in the catalog.
const ErrNotFound = common.ConstError("artifact not found")

// Catalog is an index of the artifacts known to a local mirror, kept in a
// LevelDB instance next to the content tree. Records are keyed by artifact
// base names, whose fixed-width checkpoint encoding makes the key order of
// a category the checkpoint order.
type Catalog struct {
	db *leveldb.DB
}

// OpenCatalog opens the catalog in the given directory, creating it if
// needed.
func OpenCatalog(dir string) (*Catalog, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog in %s: %w", dir, err)
	}
	return &Catalog{db: db}, nil
}

// Close flushes and closes the catalog.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put records the given artifact, replacing any previous record.
func (c *Catalog) Put(entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry %s: %w", entry.BaseName(), err)
	}
	return c.db.Put([]byte(entry.BaseName()), value, nil)
}

// Get retrieves the record of an artifact, or ErrNotFound if the artifact
// is not known to the catalog.
func (c *Catalog) Get(category, hexId, suffix string) (Entry, error) {
	key := BaseName(category, hexId, suffix)
	value, err := c.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return Entry{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode entry %s: %w", key, err)
	}
	return entry, nil
}

// Has determines whether the catalog holds a record of the given artifact.
func (c *Catalog) Has(category, hexId, suffix string) (bool, error) {
	return c.db.Has([]byte(BaseName(category, hexId, suffix)), nil)
}

// Delete removes the record of an artifact. Deleting an unknown artifact
// has no effect.
func (c *Catalog) Delete(category, hexId, suffix string) error {
	return c.db.Delete([]byte(BaseName(category, hexId, suffix)), nil)
}

// List retrieves the records of all artifacts of a category, in the order
// of their base names.
func (c *Catalog) List(category string) ([]Entry, error) {
	res := []Entry{}
	iter := c.db.NewIterator(util.BytesPrefix([]byte(category+"-")), nil)
	defer iter.Release()
	for iter.Next() {
		var entry Entry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", iter.Key(), err)
		}
		res = append(res, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}
	return res, nil
}
