package hdkey

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPathString is the account path used by the miner's mnemonic mode.
const DefaultPathString = "m/44'/396'/0'/0/0"

// DefaultPath is DefaultPathString parsed.
var DefaultPath = MustParsePath(DefaultPathString)

// Step is a single derivation step. Index is always below 2^31; the hardened
// flag is applied on top of it.
type Step struct {
	Index    uint32
	Hardened bool
}

// ChildNumber returns the effective child number of the step.
func (s Step) ChildNumber() uint32 {
	if s.Hardened {
		return s.Index | HardenedKeyStart
	}
	return s.Index
}

func (s Step) String() string {
	str := strconv.FormatUint(uint64(s.Index), 10)
	if s.Hardened {
		str += "'"
	}
	return str
}

// Path is an ordered list of derivation steps.
type Path []Step

// ParsePath parses slash separated paths such as m/44'/396'/0'/0/0. A leading
// "m" is ignored and a trailing apostrophe marks a hardened step.
func ParsePath(pathString string) (Path, error) {
	if pathString == "" {
		return nil, errors.Wrap(ErrPathSyntax, "empty path")
	}

	parts := strings.Split(pathString, "/")
	if parts[0] == "m" {
		parts = parts[1:]
	}

	path := make(Path, 0, len(parts))
	for i, part := range parts {
		hardened := strings.HasSuffix(part, "'")
		digits := strings.TrimSuffix(part, "'")
		if !isDecimal(digits) {
			return nil, errors.Wrapf(ErrPathSyntax, "component %d (%q) is not a decimal index", i, part)
		}

		index, err := strconv.ParseUint(digits, 10, 32)
		if err != nil || index >= HardenedKeyStart {
			return nil, errors.Wrapf(ErrPathSyntax, "component %d (%q) must be below %d", i, part, uint32(HardenedKeyStart))
		}

		path = append(path, Step{Index: uint32(index), Hardened: hardened})
	}

	return path, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(pathString string) Path {
	path, err := ParsePath(pathString)
	if err != nil {
		panic(err)
	}
	return path
}

func (p Path) String() string {
	var builder strings.Builder
	builder.WriteString("m")
	for _, step := range p {
		builder.WriteByte('/')
		builder.WriteString(step.String())
	}
	return builder.String()
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
