package env

import (
	"fmt"
	"strings"
)

// ListSeparator separates entries in PATH-style variables on the platforms
// this runtime targets.
const ListSeparator = ':'

// SplitPaths splits a PATH-style value into its entries. Empty entries are
// preserved, so JoinPaths(SplitPaths(s)) == s whenever no entry contains
// the separator.
func SplitPaths(s string) []string {
	return strings.Split(s, string(ListSeparator))
}

// JoinPathsError reports an entry that cannot be joined because it
// contains the separator character itself.
type JoinPathsError struct {
	Entry string
}

func (e *JoinPathsError) Error() string {
	return fmt.Sprintf("path segment %q contains separator %q", e.Entry, ListSeparator)
}

// JoinPaths assembles entries into a PATH-style value. It fails with
// *JoinPathsError if any entry contains the separator.
func JoinPaths(entries []string) (string, error) {
	for _, entry := range entries {
		if strings.ContainsRune(entry, ListSeparator) {
			return "", &JoinPathsError{Entry: entry}
		}
	}
	return strings.Join(entries, string(ListSeparator)), nil
}
