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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Keel-foundation/Keel/go/fs"
)

// scratchDirName is the directory artifacts are staged in before being
// moved to their final position. Dot-prefixed entries are invisible to the
// store walker.
const scratchDirName = ".tmp"

// Store is a local history-archive tree: artifacts filed below a root
// directory at the positions given by the naming scheme, together with a
// bookkeeping manifest. Artifact contents are opaque byte streams; the
// store neither validates nor interprets them.
type Store struct {
	root    string
	scratch *fs.ScratchSpace
}

// Entry describes one artifact of a store.
type Entry struct {
	Category string `json:"category"`
	Hex      string `json:"hex"`
	Suffix   string `json:"suffix"`
	Size     int64  `json:"size"`
	Sha256   string `json:"sha256"`
}

// BaseName returns the plain file name of the artifact.
func (e *Entry) BaseName() string {
	return BaseName(e.Category, e.Hex, e.Suffix)
}

// OpenStore opens the store rooted at the given directory, creating the
// directory and its bookkeeping manifest if needed. Stores written by an
// incompatible version of this software are rejected with
// ErrUnsupportedVersion.
func OpenStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("store root must not be empty")
	}
	root = strings.TrimSuffix(root, "/")
	if err := fs.MkPath(root); err != nil {
		return nil, err
	}

	found, err := fs.Exists(filepath.Join(root, stateFileName))
	if err != nil {
		return nil, err
	}
	if !found {
		if err := writeState(root, State{Version: storeVersion}); err != nil {
			return nil, err
		}
	}
	state, err := readState(root)
	if err != nil {
		return nil, err
	}
	if state.Version != storeVersion {
		return nil, fmt.Errorf("%w: store %s has version %d, supported is %d",
			ErrUnsupportedVersion, root, state.Version, storeVersion)
	}

	scratch, err := fs.NewScratchSpace(root + "/" + scratchDirName)
	if err != nil {
		return nil, err
	}
	return &Store{root: root, scratch: scratch}, nil
}

// Root returns the directory this store is rooted at.
func (s *Store) Root() string {
	return s.root
}

// LocalPath returns the position of an artifact inside this store.
func (s *Store) LocalPath(category, hexId, suffix string) (string, error) {
	name, err := RemoteName(category, hexId, suffix)
	if err != nil {
		return "", err
	}
	return s.root + "/" + name, nil
}

// EnsureRemoteDir materializes the shard directory of an artifact inside
// this store and returns its path.
func (s *Store) EnsureRemoteDir(category, hexId string) (string, error) {
	dir, err := RemoteDir(category, hexId)
	if err != nil {
		return "", err
	}
	path := s.root + "/" + dir
	if err := fs.MkPath(path); err != nil {
		return "", err
	}
	return path, nil
}

// Put files the content provided by the given reader as an artifact of
// this store, digesting it on the way. The artifact appears atomically at
// its final position; a concurrent reader can never observe a partially
// written artifact.
func (s *Store) Put(category, hexId, suffix string, src io.Reader) (entry Entry, err error) {
	target, err := s.LocalPath(category, hexId, suffix)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.EnsureRemoteDir(category, hexId); err != nil {
		return Entry{}, err
	}

	spool, err := s.spool(src)
	if err != nil {
		return Entry{}, err
	}
	defer func() {
		err = errors.Join(err, fs.DelTree(filepath.Dir(spool.path)))
	}()

	if err := os.Rename(spool.path, target); err != nil {
		return Entry{}, fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return Entry{Category: category, Hex: hexId, Suffix: suffix, Size: spool.size, Sha256: spool.digest}, nil
}

// PutBucket files a content-addressed bucket artifact. Buckets are named
// after the SHA-256 digest of their content, which is only known once the
// content has been consumed, so the identifier is derived while spooling.
func (s *Store) PutBucket(suffix string, src io.Reader) (entry Entry, err error) {
	spool, err := s.spool(src)
	if err != nil {
		return Entry{}, err
	}
	defer func() {
		err = errors.Join(err, fs.DelTree(filepath.Dir(spool.path)))
	}()

	target, err := s.LocalPath(CategoryBucket, spool.digest, suffix)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.EnsureRemoteDir(CategoryBucket, spool.digest); err != nil {
		return Entry{}, err
	}
	if err := os.Rename(spool.path, target); err != nil {
		return Entry{}, fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return Entry{Category: CategoryBucket, Hex: spool.digest, Suffix: suffix, Size: spool.size, Sha256: spool.digest}, nil
}

// Open opens an artifact of this store for reading.
func (s *Store) Open(category, hexId, suffix string) (io.ReadCloser, error) {
	path, err := s.LocalPath(category, hexId, suffix)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return file, nil
}

// Has determines whether this store holds the given artifact.
func (s *Store) Has(category, hexId, suffix string) (bool, error) {
	path, err := s.LocalPath(category, hexId, suffix)
	if err != nil {
		return false, err
	}
	return fs.Exists(path)
}

// Walk calls the given visitor for every artifact filed in this store,
// hashing each artifact's content on the way. Entries are visited in
// lexicographic path order. Files not following the naming scheme or filed
// at the wrong position are skipped. The walk stops at the first visitor
// error.
func (s *Store) Walk(visit func(Entry) error) error {
	return filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != s.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		entry, ok, err := s.entryAt(path, info)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return visit(entry)
	})
}

// State returns the bookkeeping record of this store.
func (s *Store) State() (State, error) {
	return readState(s.root)
}

// RecordLatest updates the latest complete checkpoint in the store's
// bookkeeping record.
func (s *Store) RecordLatest(checkpoint Checkpoint) error {
	state, err := readState(s.root)
	if err != nil {
		return err
	}
	state.Latest = checkpoint
	return writeState(s.root, state)
}

// spoolFile is an artifact staged in the scratch space before being moved
// to its final position.
type spoolFile struct {
	path   string
	size   int64
	digest string
}

// spool copies the given content into a fresh scratch file, measuring and
// digesting it on the way.
func (s *Store) spool(src io.Reader) (*spoolFile, error) {
	dir, err := s.scratch.TmpDir("spool")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "artifact")
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create spool file %s: %w", path, err), fs.DelTree(dir))
	}

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hasher), src)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to spool artifact content: %w", err), fs.DelTree(dir))
	}
	return &spoolFile{path: path, size: size, digest: hex.EncodeToString(hasher.Sum(nil))}, nil
}

// entryAt checks whether the file described by the given walk position is
// an artifact filed at its proper place and derives its catalog entry.
func (s *Store) entryAt(path string, info os.FileInfo) (Entry, bool, error) {
	category, hexId, suffix, err := ParseBaseName(info.Name())
	if err != nil {
		return Entry{}, false, nil
	}
	expected, err := s.LocalPath(category, hexId, suffix)
	if err != nil || filepath.Clean(expected) != filepath.Clean(path) {
		return Entry{}, false, nil
	}
	digest, err := digestFile(path)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Category: category, Hex: hexId, Suffix: suffix, Size: info.Size(), Sha256: digest}, true, nil
}

// digestFile computes the SHA-256 digest of the file with the given path.
func digestFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	hasher := sha256.New()
	_, err = io.Copy(hasher, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to digest %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
