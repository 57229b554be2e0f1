// Package archive implements the deterministic naming scheme of Keel's
// history archives and the local storage for their artifacts. Independent
// nodes and archival tools must derive the identical path for an artifact
// with a given identifier without any coordination, so the scheme has to be
// reproduced bit-exact.
package archive

import (
	"fmt"
	"strings"

	"github.com/Keel-foundation/Keel/go/common"
)

const (
	// ErrInvalidIdentifier is reported for artifact identifiers that do not
	// provide the hex digits required by the naming scheme.
	ErrInvalidIdentifier = common.ConstError("invalid artifact identifier")
	// ErrInvalidName is reported for file names that do not follow the
	// naming scheme.
	ErrInvalidName = common.ConstError("invalid artifact name")
)

// Categories of artifacts kept in a history archive. The category is the
// leading component of every artifact name.
const (
	CategoryLedger       = "ledger"
	CategoryBucket       = "bucket"
	CategoryTransactions = "transactions"
	CategoryResults      = "results"
)

// BaseName composes the plain file name of an artifact. None of the
// components may contain path separators; the inputs are not validated.
func BaseName(category, hex, suffix string) string {
	return fmt.Sprintf("%s-%s.%s", category, hex, suffix)
}

// ShardDir derives the three-level directory path an artifact with the
// given hex identifier is filed under, "1f/40/0a" for "1f400a...". Each
// level holds at most 256 entries, keeping directories enumerable as an
// archive grows to millions of artifacts.
func ShardDir(hex string) (string, error) {
	g1, g2, g3, err := shardOf(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", g1, g2, g3), nil
}

// RemoteDir derives the archive directory of an artifact, the category
// followed by the shard path of the identifier.
func RemoteDir(category, hex string) (string, error) {
	shards, err := ShardDir(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", category, shards), nil
}

// RemoteName derives the full archive path of an artifact relative to the
// archive root.
func RemoteName(category, hex, suffix string) (string, error) {
	dir, err := RemoteDir(category, hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", dir, BaseName(category, hex, suffix)), nil
}

// ParseBaseName decomposes a file name produced by BaseName into its
// category, hex identifier, and suffix.
func ParseBaseName(name string) (category, hex, suffix string, err error) {
	category, rest, found := strings.Cut(name, "-")
	if !found || category == "" {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	hex, suffix, found = strings.Cut(rest, ".")
	if !found || hex == "" || suffix == "" {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return category, hex, suffix, nil
}

// shardOf splits the leading six hex digits of an identifier into the
// three directory levels an artifact is filed under. Identifiers are
// case-insensitive, characters beyond the first six are ignored.
func shardOf(hex string) (g1, g2, g3 string, err error) {
	if len(hex) < 6 {
		return "", "", "", fmt.Errorf("%w: %q is shorter than 6 hex digits", ErrInvalidIdentifier, hex)
	}
	for i := 0; i < 6; i++ {
		if !isHexDigit(hex[i]) {
			return "", "", "", fmt.Errorf("%w: %q does not start with 6 hex digits", ErrInvalidIdentifier, hex)
		}
	}
	head := strings.ToLower(hex[:6])
	return head[0:2], head[2:4], head[4:6], nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
