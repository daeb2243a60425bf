package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/oracle"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	datadir := filepath.Join(t.TempDir(), "nested", "datadir")
	t.Setenv("BEAUTYHUNTER_DATADIR", datadir)

	require.NoError(t, Load())
	require.DirExists(t, datadir)

	require.Equal(t, runtime.NumCPU(), GetInt(WorkersKey))
	require.Equal(t, generator.Fast, GetMode())
	require.Equal(t, hdkey.Standard, GetScheme())
	require.Equal(t, DefaultContract, GetString(ContractKey))
	require.Equal(t, filepath.Join(datadir, DefaultOutputFile), GetOutput())
	require.Equal(t, 1000, GetInt(BufferSizeKey))
	require.Equal(t, 1000000, GetInt(BatchSizeKey))
	require.Zero(t, GetLimit())
	require.Equal(t, 1, GetInt(TemplateTagKey))
	require.Equal(t, log.InfoLevel, GetLogLevel())
	require.Equal(t, time.Second, GetDuration(ProgressIntervalKey))
	require.Empty(t, GetString(MetricsAddrKey))

	path, err := GetPath()
	require.NoError(t, err)
	require.Equal(t, hdkey.DefaultPath, path)

	hash, err := GetHash()
	require.NoError(t, err)
	require.Equal(t, oracle.SHA256, hash)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BEAUTYHUNTER_DATADIR", t.TempDir())
	t.Setenv("BEAUTYHUNTER_WORKERS", "3")
	t.Setenv("BEAUTYHUNTER_MNEMONIC", "true")
	t.Setenv("BEAUTYHUNTER_LEGACY_DERIVATION", "true")
	t.Setenv("BEAUTYHUNTER_HASH", "keccak256")
	t.Setenv("BEAUTYHUNTER_OUTPUT", "leveldb:///tmp/beauty")
	t.Setenv("BEAUTYHUNTER_HD_PATH", "m/44'/396'/1'/0/5")
	t.Setenv("BEAUTYHUNTER_PROGRESS_INTERVAL", "250ms")
	t.Setenv("BEAUTYHUNTER_LIMIT", "42")

	require.NoError(t, Load())
	require.Equal(t, 3, GetInt(WorkersKey))
	require.Equal(t, generator.Mnemonic, GetMode())
	require.Equal(t, hdkey.Legacy, GetScheme())
	require.Equal(t, "leveldb:///tmp/beauty", GetOutput())
	require.Equal(t, 250*time.Millisecond, GetDuration(ProgressIntervalKey))
	require.EqualValues(t, 42, GetLimit())

	hash, err := GetHash()
	require.NoError(t, err)
	require.Equal(t, oracle.Keccak256, hash)

	path, err := GetPath()
	require.NoError(t, err)
	require.Equal(t, "m/44'/396'/1'/0/5", path.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"no workers", "BEAUTYHUNTER_WORKERS", "0"},
		{"no buffer", "BEAUTYHUNTER_BUFFER_SIZE", "0"},
		{"no batch", "BEAUTYHUNTER_BATCH_SIZE", "-1"},
		{"negative limit", "BEAUTYHUNTER_LIMIT", "-1"},
		{"tag overflow", "BEAUTYHUNTER_TEMPLATE_TAG", "256"},
		{"log level", "BEAUTYHUNTER_LOG_LEVEL", "9"},
		{"progress interval", "BEAUTYHUNTER_PROGRESS_INTERVAL", "0s"},
		{"bad path", "BEAUTYHUNTER_HD_PATH", "m/44'/x"},
		{"bad hash", "BEAUTYHUNTER_HASH", "md5"},
		{"empty leveldb", "BEAUTYHUNTER_OUTPUT", "leveldb://"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv("BEAUTYHUNTER_DATADIR", t.TempDir())
			t.Setenv(test.key, test.value)
			require.Error(t, Load())
		})
	}
}

func TestBindFlag(t *testing.T) {
	t.Setenv("BEAUTYHUNTER_DATADIR", t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("batch", generator.DefaultBatchSize, "")
	BindFlag(BatchSizeKey, flags.Lookup("batch"))
	t.Cleanup(initViper)

	require.NoError(t, flags.Parse([]string{"--batch", "77"}))
	require.Equal(t, 77, GetInt(BatchSizeKey))
}

func TestMakeDirectoryIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, makeDirectoryIfNotExists(path))
	require.NoError(t, makeDirectoryIfNotExists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
