package beauty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected Code
	}{
		{
			name:     "clustered chunk",
			address:  "00000000" + strings.Repeat("0123456789abcdef", 3) + "01234567",
			expected: ClusteredChunks,
		},
		{
			name:     "clustered last chunk",
			address:  strings.Repeat("0123456789abcdef", 3) + "01234567" + "ababab",
			expected: ClusteredChunks,
		},
		{
			name:     "keyword",
			address:  "abcabca" + strings.Repeat("0123456789abcdef", 3) + "012345678",
			expected: KeywordPrefix,
		},
		{
			name:     "keyword on short address",
			address:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd",
			expected: KeywordPrefix,
		},
		{
			name:     "low entropy prefix wins over single class",
			address:  "12121213" + strings.Repeat("45678901", 7),
			expected: LowEntropyPrefix,
		},
		{
			name:     "low entropy address",
			address:  strings.Repeat("abcde", 12) + "abcd",
			expected: LowEntropyAddress,
		},
		{
			name:     "all letters",
			address:  strings.Repeat("abcdef", 10) + "abcd",
			expected: SingleClass,
		},
		{
			name:     "all digits",
			address:  strings.Repeat("9876543210", 6) + "9876",
			expected: SingleClass,
		},
		{
			name:     "no match",
			address:  strings.Repeat("abcdef0123456789", 4),
			expected: NoMatch,
		},
		{
			name:     "empty",
			address:  "",
			expected: LowEntropyPrefix,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Classify(test.address))
		})
	}
}

func TestClassifyEveryKeyword(t *testing.T) {
	for _, keyword := range Keywords() {
		address := keyword + strings.Repeat("0a1b2c3d4e5f6789", 3) + "0a1b2c3d4"
		require.Len(t, address, 64)
		require.Equal(t, KeywordPrefix, Classify(address), keyword)
	}
}

func TestKeywordsReturnsCopy(t *testing.T) {
	words := Keywords()
	words[0] = "changed"
	require.Equal(t, "abcabca", Keywords()[0])
}

func TestDistinct(t *testing.T) {
	require.Equal(t, 0, distinct(""))
	require.Equal(t, 1, distinct("aaaa"))
	require.Equal(t, 3, distinct("abcabc"))
	require.Equal(t, 4, distinct("\x00\xff\x40\x7f"))
}

func TestCodeString(t *testing.T) {
	require.Equal(t, "keyword", KeywordPrefix.String())
	require.Equal(t, "unknown", Code(42).String())
}

func BenchmarkClassify(b *testing.B) {
	address := strings.Repeat("abcdef0123456789", 4)
	for i := 0; i < b.N; i++ {
		Classify(address)
	}
}
