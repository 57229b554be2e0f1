package fs

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// ScratchSpace manages a directory for the temporary files and directories
// of a node instance. Individual entries are never reclaimed, the whole
// space is removed at once through Cleanup.
type ScratchSpace struct {
	root string
}

// NewScratchSpace creates a scratch space rooted at the given directory,
// creating the directory if needed.
func NewScratchSpace(root string) (*ScratchSpace, error) {
	if err := MkPath(root); err != nil {
		return nil, err
	}
	return &ScratchSpace{root: root}, nil
}

// Root returns the directory all entries of this space are created under.
func (s *ScratchSpace) Root() string {
	return s.root
}

// TmpDir creates a fresh empty directory in this space whose name starts
// with the given prefix and returns its path.
func (s *ScratchSpace) TmpDir(prefix string) (string, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
	if !MkDir(dir) {
		return "", fmt.Errorf("failed to create temporary directory %s", dir)
	}
	return dir, nil
}

// Cleanup removes the scratch space with everything it contains.
func (s *ScratchSpace) Cleanup() error {
	return DelTree(s.root)
}
