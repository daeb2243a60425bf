package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Amr-9/BeautyHunter/internal/config"
	"github.com/Amr-9/BeautyHunter/internal/ui"
	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/Amr-9/BeautyHunter/pkg/generator/cpu"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/oracle"
	"github.com/Amr-9/BeautyHunter/pkg/sink"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "beautyhunter",
		Short: "Beautiful account address miner",
		Long: `Generates Ed25519 keypairs, computes the account id each one gets with the
given contract template and keeps the ones whose id looks beautiful.
Every match is written with its secret key, keep the output private.`,
		Version:       formatVersion(),
		RunE:          mine,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	persistent := root.PersistentFlags()
	persistent.StringP("output", "f", "", "sink destination: a CSV path or a leveldb://, badger://, postgres:// or memory:// url (default addresses.csv in the datadir)")
	persistent.String("datadir", "", "data directory (default is platform specific)")
	persistent.Int("log-level", int(log.InfoLevel), "log level, 0 (panic) to 6 (trace)")
	bindFlags(persistent, map[string]string{
		config.OutputKey:   "output",
		config.DatadirKey:  "datadir",
		config.LogLevelKey: "log-level",
	})

	flags := root.Flags()
	flags.IntP("workers", "t", runtime.NumCPU(), "number of mining goroutines")
	flags.BoolP("mnemonic", "m", false, "generate 12-word mnemonics and derive the keys along --path")
	flags.StringP("contract", "c", config.DefaultContract, "contract template image")
	flags.String("hash", string(oracle.SHA256), "outer account id hash: sha256, sha3-256 or keccak256")
	flags.Int("buffer", sink.DefaultCapacity, "matches buffered before a sink flush")
	flags.Int("batch", generator.DefaultBatchSize, "candidates between two throughput reports")
	flags.Uint64("limit", 0, "stop each worker after this many candidates, 0 runs until interrupted")
	flags.String("path", hdkey.DefaultPathString, "derivation path used with --mnemonic")
	flags.Bool("legacy-derivation", false, "strip leading zero bytes of hardened parent keys like old wallets did")
	flags.Int("tag", generator.DefaultTag, "origin tag stored with every match")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9100")
	flags.Duration("progress-interval", time.Second, "refresh interval of the progress line")
	flags.Bool("high-priority", false, "raise the process priority before mining")
	bindFlags(flags, map[string]string{
		config.WorkersKey:          "workers",
		config.MnemonicKey:         "mnemonic",
		config.ContractKey:         "contract",
		config.HashKey:             "hash",
		config.BufferSizeKey:       "buffer",
		config.BatchSizeKey:        "batch",
		config.LimitKey:            "limit",
		config.HDPathKey:           "path",
		config.LegacyDerivationKey: "legacy-derivation",
		config.TemplateTagKey:      "tag",
		config.MetricsAddrKey:      "metrics-addr",
		config.ProgressIntervalKey: "progress-interval",
		config.HighPriorityKey:     "high-priority",
	})

	root.AddCommand(newDeriveCmd(), newClassifyCmd(), newListCmd())
	return root
}

func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		config.BindFlag(key, flags.Lookup(name))
	}
}

func mine(cmd *cobra.Command, _ []string) error {
	if err := config.Load(); err != nil {
		return err
	}
	log.SetLevel(config.GetLogLevel())

	if config.GetBool(config.HighPriorityKey) {
		if err := setHighPriority(); err != nil {
			log.WithError(err).Warn("unable to raise process priority")
		}
	}

	hash, err := config.GetHash()
	if err != nil {
		return err
	}
	template, err := oracle.Load(config.GetString(config.ContractKey), hash)
	if err != nil {
		return err
	}
	path, err := config.GetPath()
	if err != nil {
		return err
	}

	output := config.GetOutput()
	matches, err := sink.Open(context.Background(), output, config.GetInt(config.BufferSizeKey))
	if err != nil {
		return err
	}

	if addr := config.GetString(config.MetricsAddrKey); addr != "" {
		server := startMetricsServer(addr)
		defer server.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := cpu.NewCPUGenerator(config.GetInt(config.WorkersKey))
	search := &generator.Config{
		Mode:      config.GetMode(),
		Workers:   config.GetInt(config.WorkersKey),
		BatchSize: config.GetInt(config.BatchSizeKey),
		Limit:     config.GetLimit(),
		Path:      path,
		Scheme:    config.GetScheme(),
		Tag:       uint8(config.GetInt(config.TemplateTagKey)),
		Oracle:    template,
		Sink:      matches,
	}

	ui.PrintWelcomeBanner(version)
	ui.PrintSearchInfo(ui.SearchInfo{
		Mode:        search.Mode,
		Workers:     search.Workers,
		Contract:    template.Name(),
		Hash:        string(template.Hash()),
		Destination: displayDestination(output),
		Path:        path.String(),
		Scheme:      search.Scheme.String(),
		Limit:       search.Limit,
	})

	done := make(chan error, 1)
	go func() {
		done <- gen.Run(ctx, search)
	}()
	runErr := watchProgress(gen, done, config.GetDuration(config.ProgressIntervalKey))

	closeErr := matches.Close()
	ui.PrintSummary(gen.Stats(), displayDestination(output))

	if runErr != nil {
		if closeErr != nil {
			log.WithError(closeErr).Warn("closing sink")
		}
		return runErr
	}
	return errors.Wrap(closeErr, "closing sink")
}

// watchProgress redraws the progress line until the search returns.
func watchProgress(gen generator.Generator, done <-chan error, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case err := <-done:
			ui.ClearLine()
			return err
		case <-ticker.C:
			ui.PrintProgress(gen.Stats(), frame)
			frame++
		}
	}
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Warn("metrics server stopped")
		}
	}()
	log.Infof("serving metrics on %s/metrics", addr)
	return server
}

// displayDestination hides the password of database urls.
func displayDestination(destination string) string {
	u, err := url.Parse(destination)
	if err != nil || u.User == nil {
		return destination
	}
	return u.Redacted()
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}
