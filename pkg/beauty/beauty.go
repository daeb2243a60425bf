// Package beauty classifies account ids by how "beautiful" they look.
package beauty

// Code is the classification of an address. Lower non-zero codes take
// priority over higher ones.
type Code uint8

const (
	NoMatch Code = iota
	ClusteredChunks
	KeywordPrefix
	LowEntropyPrefix
	LowEntropyAddress
	SingleClass
)

const (
	chunkLen  = 8
	prefixLen = 7

	minChunkDistinct   = 3
	minPrefixDistinct  = 3
	minAddressDistinct = 6
)

var keywords = [...]string{"abcabca", "1234321", "0123456", "1234567", "2345678", "3456789", "4567890"}

func (c Code) String() string {
	switch c {
	case NoMatch:
		return "none"
	case ClusteredChunks:
		return "clustered"
	case KeywordPrefix:
		return "keyword"
	case LowEntropyPrefix:
		return "low-entropy-prefix"
	case LowEntropyAddress:
		return "low-entropy"
	case SingleClass:
		return "single-class"
	default:
		return "unknown"
	}
}

// Keywords returns the prefixes that qualify as KeywordPrefix.
func Keywords() []string {
	return append([]string(nil), keywords[:]...)
}

// Classify returns the first matching code for address, or NoMatch.
func Classify(address string) Code {
	for start := 0; start < len(address); start += chunkLen {
		end := start + chunkLen
		if end > len(address) {
			end = len(address)
		}
		if distinct(address[start:end]) < minChunkDistinct {
			return ClusteredChunks
		}
	}

	prefix := address
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}
	for _, keyword := range keywords {
		if prefix == keyword {
			return KeywordPrefix
		}
	}
	if distinct(prefix) < minPrefixDistinct {
		return LowEntropyPrefix
	}

	if distinct(address) < minAddressDistinct {
		return LowEntropyAddress
	}

	if allIn(address, '0', '9') || allIn(address, 'a', 'f') {
		return SingleClass
	}

	return NoMatch
}

func distinct(s string) int {
	var seen [4]uint64
	count := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		bit := uint64(1) << (c & 63)
		if seen[c>>6]&bit == 0 {
			seen[c>>6] |= bit
			count++
		}
	}
	return count
}

func allIn(s string, lo, hi byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < lo || s[i] > hi {
			return false
		}
	}
	return true
}
