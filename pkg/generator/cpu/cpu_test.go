package cpu

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/Amr-9/BeautyHunter/pkg/keypair"
	"github.com/Amr-9/BeautyHunter/pkg/oracle"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// clusteredOracle turns every public key into a unique ClusteredChunks match.
type clusteredOracle struct{}

func (clusteredOracle) AccountID(publicKey []byte) (string, error) {
	return "00000000" + hex.EncodeToString(publicKey)[8:], nil
}

type failingOracle struct{}

func (failingOracle) AccountID([]byte) (string, error) {
	return "", errBoom
}

type recordingSink struct {
	mu         sync.Mutex
	records    []generator.Candidate
	codes      []beauty.Code
	flushes    int
	failAfter  int
	onPush     func()
	pushFailed bool
}

func (s *recordingSink) Push(candidate generator.Candidate, code beauty.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAfter > 0 && len(s.records) >= s.failAfter {
		s.pushFailed = true
		return errBoom
	}
	s.records = append(s.records, candidate)
	s.codes = append(s.codes, code)
	if s.onPush != nil {
		s.onPush()
	}
	return nil
}

func (s *recordingSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func init() {
	log.SetLevel(log.WarnLevel)
}

func TestRunPushesExactlyWorkersTimesLimit(t *testing.T) {
	const workers, limit = 4, 250

	sink := &recordingSink{}
	g := NewCPUGenerator(workers)
	err := g.Run(context.Background(), &generator.Config{
		Mode:      generator.Fast,
		BatchSize: 100,
		Limit:     limit,
		Tag:       7,
		Oracle:    clusteredOracle{},
		Sink:      sink,
	})
	require.NoError(t, err)

	require.Len(t, sink.records, workers*limit)
	require.Equal(t, 1, sink.flushes)

	seen := make(map[string]struct{}, len(sink.records))
	for i, candidate := range sink.records {
		require.Equal(t, beauty.ClusteredChunks, sink.codes[i])
		require.EqualValues(t, 7, candidate.Tag)
		require.Empty(t, candidate.SeedPhrase)
		require.Equal(t, keypair.FromScalar(candidate.Keypair.Secret), candidate.Keypair)
		seen[candidate.AccountID] = struct{}{}
	}
	require.Len(t, seen, workers*limit)

	stats := g.Stats()
	require.EqualValues(t, workers*limit, stats.Attempts)
	require.EqualValues(t, workers*limit, stats.Matches[beauty.ClusteredChunks])
	require.EqualValues(t, workers*limit, stats.TotalMatches())
	require.Zero(t, stats.Skipped)
}

func TestRunMnemonicMode(t *testing.T) {
	sink := &recordingSink{}
	g := NewCPUGenerator(2)
	err := g.Run(context.Background(), &generator.Config{
		Mode:   generator.Mnemonic,
		Limit:  3,
		Oracle: clusteredOracle{},
		Sink:   sink,
	})
	require.NoError(t, err)
	require.Len(t, sink.records, 6)

	for _, candidate := range sink.records {
		require.Len(t, strings.Fields(candidate.SeedPhrase), 12)

		expected, err := deriveKeypair(candidate.SeedPhrase, hdkey.DefaultPath, hdkey.Standard)
		require.NoError(t, err)
		require.Equal(t, expected, candidate.Keypair)
	}
}

func TestRunMatchesRealOracle(t *testing.T) {
	template, err := oracle.New("test.tvc", []byte("contract"), oracle.SHA256)
	require.NoError(t, err)

	sink := &recordingSink{}
	g := NewCPUGenerator(2)
	err = g.Run(context.Background(), &generator.Config{
		Limit:  500,
		Oracle: template,
		Sink:   sink,
	})
	require.NoError(t, err)

	for i, candidate := range sink.records {
		id, err := template.AccountID(candidate.Keypair.Public[:])
		require.NoError(t, err)
		require.Equal(t, id, candidate.AccountID)
		require.Equal(t, beauty.Classify(id), sink.codes[i])
	}
	require.EqualValues(t, 1000, g.Stats().Attempts)
}

func TestRunStopsOnSinkError(t *testing.T) {
	sink := &recordingSink{failAfter: 5}
	g := NewCPUGenerator(3)
	err := g.Run(context.Background(), &generator.Config{
		Oracle: clusteredOracle{},
		Sink:   sink,
	})
	require.ErrorIs(t, err, errBoom)
	require.True(t, sink.pushFailed)
	require.Equal(t, 1, sink.flushes)
}

func TestRunStopsOnOracleError(t *testing.T) {
	sink := &recordingSink{}
	g := NewCPUGenerator(2)
	err := g.Run(context.Background(), &generator.Config{
		Oracle: failingOracle{},
		Sink:   sink,
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 1, sink.flushes)
}

func TestRunCancellationFlushes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{onPush: cancel}
	g := NewCPUGenerator(2)

	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx, &generator.Config{
			Oracle: clusteredOracle{},
			Sink:   sink,
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	require.GreaterOrEqual(t, sink.count(), 1)
	require.Equal(t, 1, sink.flushes)
}

func TestRunValidatesConfig(t *testing.T) {
	g := NewCPUGenerator(1)

	err := g.Run(context.Background(), &generator.Config{Sink: &recordingSink{}})
	require.ErrorIs(t, err, generator.ErrNoOracle)

	err = g.Run(context.Background(), &generator.Config{Oracle: clusteredOracle{}})
	require.ErrorIs(t, err, generator.ErrNoSink)
}

func TestRunFailsWithoutEntropy(t *testing.T) {
	sink := &recordingSink{}
	g := NewCPUGenerator(1)
	g.entropy = func() (*chachaReader, error) {
		return newChaChaReader(strings.NewReader("short"))
	}

	err := g.Run(context.Background(), &generator.Config{Oracle: clusteredOracle{}, Sink: sink})
	require.Error(t, err)
	require.Equal(t, 1, sink.flushes)
}

type scriptedFactory struct {
	errs []error
}

func (f *scriptedFactory) next() (generator.Candidate, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return generator.Candidate{}, err
		}
	}
	return generator.Candidate{Keypair: keypair.FromScalar([32]byte{1})}, nil
}

func TestWorkerSkipsInvalidChildKey(t *testing.T) {
	sink := &recordingSink{}
	g := NewCPUGenerator(1)
	w := &worker{
		gen:    g,
		config: &generator.Config{Oracle: clusteredOracle{}, Sink: sink},
		factory: &scriptedFactory{errs: []error{
			errors.Wrap(hdkey.ErrInvalidChildKey, "step 3"),
			nil,
			hdkey.ErrCurveOperation,
		}},
		logger: log.WithField("worker", 0),
	}

	require.NoError(t, w.step())
	require.Zero(t, sink.count())
	require.EqualValues(t, 1, g.Stats().Skipped)

	require.NoError(t, w.step())
	require.Equal(t, 1, sink.count())

	require.ErrorIs(t, w.step(), hdkey.ErrCurveOperation)
	require.EqualValues(t, 3, g.Stats().Attempts)
}
