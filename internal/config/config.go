package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/oracle"
	"github.com/Amr-9/BeautyHunter/pkg/sink"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// WorkersKey is the number of mining goroutines
	WorkersKey = "WORKERS"
	// MnemonicKey switches candidate generation to random mnemonic phrases
	// derived along HDPathKey
	MnemonicKey = "MNEMONIC"
	// ContractKey is the path of the contract template image
	ContractKey = "CONTRACT"
	// HashKey is the outer hash of the account id: sha256, sha3-256 or keccak256
	HashKey = "HASH"
	// OutputKey is the sink destination. A plain path is a CSV file; the
	// leveldb://, badger://, postgres:// and memory:// schemes select the
	// other backends. Empty means addresses.csv inside the datadir
	OutputKey = "OUTPUT"
	// DatadirKey is the local data directory
	DatadirKey = "DATADIR"
	// BufferSizeKey is the number of matches buffered before a sink flush
	BufferSizeKey = "BUFFER_SIZE"
	// BatchSizeKey is the number of candidates between two throughput reports
	BatchSizeKey = "BATCH_SIZE"
	// LimitKey stops every worker after this many candidates, 0 means never
	LimitKey = "LIMIT"
	// HDPathKey is the derivation path used in mnemonic mode
	HDPathKey = "HD_PATH"
	// LegacyDerivationKey strips leading zero bytes of the private key in
	// hardened derivation steps, like some old wallets did
	LegacyDerivationKey = "LEGACY_DERIVATION"
	// TemplateTagKey is the origin tag stored with every match
	TemplateTagKey = "TEMPLATE_TAG"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// MetricsAddrKey is the listen address of the prometheus endpoint, empty disables it
	MetricsAddrKey = "METRICS_ADDR"
	// ProgressIntervalKey is the refresh interval of the console progress line
	ProgressIntervalKey = "PROGRESS_INTERVAL"
	// HighPriorityKey raises the process priority before mining
	HighPriorityKey = "HIGH_PRIORITY"

	DefaultOutputFile = "addresses.csv"
	DefaultContract   = "SetcodeMultisigWallet.tvc"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("beautyhunter", false)

func init() {
	initViper()
}

func initViper() {
	vip = viper.New()
	vip.SetEnvPrefix("BEAUTYHUNTER")
	vip.AutomaticEnv()

	vip.SetDefault(WorkersKey, runtime.NumCPU())
	vip.SetDefault(MnemonicKey, false)
	vip.SetDefault(ContractKey, DefaultContract)
	vip.SetDefault(HashKey, string(oracle.SHA256))
	vip.SetDefault(OutputKey, "")
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(BufferSizeKey, sink.DefaultCapacity)
	vip.SetDefault(BatchSizeKey, generator.DefaultBatchSize)
	vip.SetDefault(LimitKey, 0)
	vip.SetDefault(HDPathKey, hdkey.DefaultPathString)
	vip.SetDefault(LegacyDerivationKey, false)
	vip.SetDefault(TemplateTagKey, generator.DefaultTag)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(MetricsAddrKey, "")
	vip.SetDefault(ProgressIntervalKey, time.Second)
	vip.SetDefault(HighPriorityKey, false)
}

// BindFlag makes flag override the environment and the default of key.
func BindFlag(key string, flag *pflag.Flag) {
	if err := vip.BindPFlag(key, flag); err != nil {
		log.WithError(err).Panicf("error while binding flag for %s", key)
	}
}

// Load validates the configuration and creates the datadir.
func Load() error {
	if err := validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return initDatadir()
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetOutput returns the sink destination, defaulting to a CSV file in the
// datadir.
func GetOutput() string {
	if output := GetString(OutputKey); output != "" {
		return output
	}
	return filepath.Join(GetDatadir(), DefaultOutputFile)
}

func GetMode() generator.Mode {
	if GetBool(MnemonicKey) {
		return generator.Mnemonic
	}
	return generator.Fast
}

func GetScheme() hdkey.Scheme {
	if GetBool(LegacyDerivationKey) {
		return hdkey.Legacy
	}
	return hdkey.Standard
}

func GetPath() (hdkey.Path, error) {
	return hdkey.ParsePath(GetString(HDPathKey))
}

func GetHash() (oracle.Hash, error) {
	return oracle.ParseHash(GetString(HashKey))
}

func GetLimit() uint64 {
	return vip.GetUint64(LimitKey)
}

func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

func validate() error {
	datadir := GetDatadir()
	if len(datadir) <= 0 {
		return errors.New("datadir must not be null")
	}

	if GetInt(WorkersKey) < 1 {
		return errors.New("workers must be at least 1")
	}
	if GetInt(BufferSizeKey) < 1 {
		return errors.New("buffer size must be at least 1")
	}
	if GetInt(BatchSizeKey) < 1 {
		return errors.New("batch size must be at least 1")
	}
	if GetInt(LimitKey) < 0 {
		return errors.New("limit must not be negative")
	}

	tag := GetInt(TemplateTagKey)
	if tag < 0 || tag > 255 {
		return errors.Errorf("template tag must be in range [0, 255], got %d", tag)
	}

	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return errors.Errorf("log level must be in range [%d, %d]", log.PanicLevel, log.TraceLevel)
	}

	if GetDuration(ProgressIntervalKey) <= 0 {
		return errors.New("progress interval must be positive")
	}

	if _, err := GetPath(); err != nil {
		return err
	}
	if _, err := GetHash(); err != nil {
		return err
	}
	if _, _, err := sink.ParseDestination(GetOutput()); err != nil {
		return err
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDatadir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
