package pandoc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultVersion is assumed when no pandoc version is configured.
const DefaultVersion = "3.6"

// ErrInvalidVersion is returned for malformed version strings.
var ErrInvalidVersion = errors.New("invalid pandoc version")

// Version is a pandoc version. Pandoc uses up to four numeric components
// (e.g. 3.1.11.1); missing trailing components compare as zero.
type Version []int

// ParseVersion parses a dotted numeric version such as "2.19.2". A leading
// "v" is accepted.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}

	parts := strings.Split(trimmed, ".")
	v := make(Version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		v = append(v, n)
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or +1 depending on whether v is lower than, equal
// to or greater than other.
func (v Version) Compare(other Version) int {
	n := max(len(v), len(other))
	for i := range n {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
