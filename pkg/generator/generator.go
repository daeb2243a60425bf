// Package generator defines the contracts of the beauty address search.
// The search itself lives in implementation packages (cpu) so that other
// backends can be swapped in behind the same Generator interface.
package generator

import (
	"context"
	"strings"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/keypair"
	"github.com/pkg/errors"
)

// DefaultBatchSize is the number of candidates a worker generates between
// two throughput reports.
const DefaultBatchSize = 1000000

// DefaultTag is the origin tag written next to every match.
const DefaultTag = 1

var (
	ErrNoOracle = errors.New("no address oracle configured")
	ErrNoSink   = errors.New("no sink configured")
	ErrBadMode  = errors.New("unknown generation mode")
)

// Mode selects how candidate keypairs are produced. It is fixed for a run.
type Mode int

const (
	Fast     Mode = iota // random Ed25519 seed per candidate
	Mnemonic             // random 12-word phrase, HD derivation, then Ed25519
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Fast:
		return "fast"
	case Mnemonic:
		return "mnemonic"
	default:
		return "unknown"
	}
}

// ParseMode accepts "fast" or "mnemonic".
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "fast", "":
		return Fast, nil
	case "mnemonic":
		return Mnemonic, nil
	default:
		return 0, errors.Wrapf(ErrBadMode, "%q", name)
	}
}

// Oracle turns a public key into an account id (64 lowercase hex chars).
type Oracle interface {
	AccountID(publicKey []byte) (string, error)
}

// Sink receives matched candidates. Push may be called from many goroutines.
type Sink interface {
	Push(candidate Candidate, code beauty.Code) error
	Flush() error
}

// Config holds the configuration of a search run.
type Config struct {
	Mode      Mode         // Fast or Mnemonic
	Workers   int          // Number of concurrent workers, <= 0 means NumCPU
	BatchSize int          // Candidates per throughput report, <= 0 means DefaultBatchSize
	Limit     uint64       // Candidates per worker, 0 means run until cancelled
	Path      hdkey.Path   // Derivation path for Mnemonic mode, nil means hdkey.DefaultPath
	Scheme    hdkey.Scheme // Hardened derivation scheme for Mnemonic mode
	Tag       uint8        // Origin tag stored with every match
	Oracle    Oracle       // Account id source
	Sink      Sink         // Destination of matches
}

// Validate checks the mandatory collaborators.
func (c *Config) Validate() error {
	if c.Oracle == nil {
		return ErrNoOracle
	}
	if c.Sink == nil {
		return ErrNoSink
	}
	if c.Mode != Fast && c.Mode != Mnemonic {
		return errors.Wrapf(ErrBadMode, "%d", int(c.Mode))
	}
	return nil
}

// Candidate is one generated account.
type Candidate struct {
	AccountID  string          // 64 lowercase hex characters
	Keypair    keypair.Keypair // Ed25519 keypair behind the account
	SeedPhrase string          // Mnemonic the keypair derives from, empty in Fast mode
	Tag        uint8           // Origin tag
}

// Stats holds real-time performance statistics.
type Stats struct {
	Attempts    uint64                         // Total number of candidates generated
	Matches     [beauty.SingleClass + 1]uint64 // Matches per classification code, index 0 unused
	Skipped     uint64                         // Candidates dropped because derivation produced an invalid key
	HashRate    float64                        // Candidates per second
	ElapsedSecs float64                        // Time elapsed since start
}

// TotalMatches sums the per code match counters.
func (s Stats) TotalMatches() uint64 {
	var total uint64
	for _, n := range s.Matches[beauty.ClusteredChunks:] {
		total += n
	}
	return total
}

// Generator defines the contract for search backends.
type Generator interface {
	// Run searches until ctx is cancelled, every worker reached the configured
	// limit, or a worker fails. The sink is flushed before Run returns.
	// Cancellation alone is not an error.
	Run(ctx context.Context, config *Config) error

	// Stats returns the current performance statistics.
	// This method is safe to call concurrently from any goroutine.
	Stats() Stats

	// Name returns the implementation name (e.g. "CPU").
	Name() string
}
