package oracle

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var accountIDPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func testPublicKey() []byte {
	publicKey := make([]byte, PublicKeySize)
	for i := range publicKey {
		publicKey[i] = byte(i)
	}
	return publicKey
}

func TestAccountIDVectors(t *testing.T) {
	tests := []struct {
		hash     Hash
		expected string
	}{
		{SHA256, "df070e8a5ac8f13d40d28c9a22e169ca9187b7ae79c87fa6c638b70330906634"},
		{SHA3256, "a2eccc7f3f5d274988edcc395d24e1def369dc1f92ff3dd1347f6a816c780aff"},
	}

	for _, test := range tests {
		t.Run(string(test.hash), func(t *testing.T) {
			template, err := New("contract.tvc", []byte("contract"), test.hash)
			require.NoError(t, err)

			id, err := template.AccountID(testPublicKey())
			require.NoError(t, err)
			require.Equal(t, test.expected, id)
		})
	}
}

func TestAccountIDShape(t *testing.T) {
	for _, hash := range Hashes {
		template, err := New("contract.tvc", []byte("contract"), hash)
		require.NoError(t, err)

		first, err := template.AccountID(testPublicKey())
		require.NoError(t, err)
		require.Regexp(t, accountIDPattern, first)

		second, err := template.AccountID(testPublicKey())
		require.NoError(t, err)
		require.Equal(t, first, second)
	}
}

func TestKeccakDiffersFromSHA3(t *testing.T) {
	keccak, err := New("c", []byte("contract"), Keccak256)
	require.NoError(t, err)
	nist, err := New("c", []byte("contract"), SHA3256)
	require.NoError(t, err)

	keccakID, err := keccak.AccountID(testPublicKey())
	require.NoError(t, err)
	nistID, err := nist.AccountID(testPublicKey())
	require.NoError(t, err)
	require.NotEqual(t, keccakID, nistID)
}

func TestTemplateImageChangesAccountID(t *testing.T) {
	a, err := New("a", []byte("wallet a"), SHA256)
	require.NoError(t, err)
	b, err := New("b", []byte("wallet b"), SHA256)
	require.NoError(t, err)

	idA, err := a.AccountID(testPublicKey())
	require.NoError(t, err)
	idB, err := b.AccountID(testPublicKey())
	require.NoError(t, err)
	require.NotEqual(t, idA, idB)
}

func TestAccountIDRejectsPublicKeyLength(t *testing.T) {
	template, err := New("c", nil, SHA256)
	require.NoError(t, err)

	_, err = template.AccountID(make([]byte, 33))
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SetcodeMultisigWallet.tvc")
	require.NoError(t, os.WriteFile(path, []byte("contract"), 0o600))

	template, err := Load(path, SHA256)
	require.NoError(t, err)
	require.Equal(t, "SetcodeMultisigWallet.tvc", template.Name())
	require.Equal(t, SHA256, template.Hash())

	id, err := template.AccountID(testPublicKey())
	require.NoError(t, err)
	require.Equal(t, "df070e8a5ac8f13d40d28c9a22e169ca9187b7ae79c87fa6c638b70330906634", id)

	_, err = Load(filepath.Join(t.TempDir(), "missing.tvc"), SHA256)
	require.Error(t, err)
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash(" Keccak256 ")
	require.NoError(t, err)
	require.Equal(t, Keccak256, h)

	_, err = ParseHash("md5")
	require.ErrorIs(t, err, ErrUnknownHash)

	_, err = New("c", nil, Hash("blake2b"))
	require.ErrorIs(t, err, ErrUnknownHash)
}
