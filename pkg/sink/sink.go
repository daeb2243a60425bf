// Package sink persists matched candidates.
//
// A Buffered sink collects matches from all workers behind one mutex and
// hands them to a Backend in batches. Backends form a closed set chosen once
// from the destination string: CSV file, LevelDB, Badger, PostgreSQL, or
// memory.
package sink

import (
	"sync"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultCapacity is the number of records buffered before a flush.
const DefaultCapacity = 1000

// ErrClosed is returned by Push and Flush after Close.
var ErrClosed = errors.New("sink is closed")

// Record is the persisted form of a match.
type Record struct {
	AccountID  string      `json:"account_id"`
	PublicKey  string      `json:"public_key"`
	SecretKey  string      `json:"secret_key"`
	SeedPhrase string      `json:"seed_phrase,omitempty"`
	Tag        uint8       `json:"tag"`
	Code       beauty.Code `json:"code" badgerholdIndex:"Code"`
}

// NewRecord flattens a candidate and its classification.
func NewRecord(candidate generator.Candidate, code beauty.Code) Record {
	return Record{
		AccountID:  candidate.AccountID,
		PublicKey:  candidate.Keypair.PublicHex(),
		SecretKey:  candidate.Keypair.SecretHex(),
		SeedPhrase: candidate.SeedPhrase,
		Tag:        candidate.Tag,
		Code:       code,
	}
}

// Backend durably stores batches of records. Write must not retain records
// after it returns.
type Backend interface {
	Write(records []Record) error
	Close() error
}

// Reader is implemented by backends that can list what they stored.
type Reader interface {
	ReadAll() ([]Record, error)
}

// Buffered is a goroutine-safe generator.Sink in front of a Backend.
type Buffered struct {
	mu       sync.Mutex
	backend  Backend
	buffer   []Record
	capacity int
	written  uint64
	closed   bool
}

var _ generator.Sink = (*Buffered)(nil)

// NewBuffered wraps backend. A capacity below 1 means DefaultCapacity.
func NewBuffered(backend Backend, capacity int) *Buffered {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffered{
		backend:  backend,
		buffer:   make([]Record, 0, capacity),
		capacity: capacity,
	}
}

// Push buffers a match and writes the whole buffer once it holds capacity
// records. The write happens under the lock, so batches never interleave.
func (b *Buffered) Push(candidate generator.Candidate, code beauty.Code) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.buffer = append(b.buffer, NewRecord(candidate, code))
	if len(b.buffer) >= b.capacity {
		return b.flushLocked()
	}
	return nil
}

// Flush writes and clears the buffer. On error the buffer is kept.
func (b *Buffered) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	return b.flushLocked()
}

// Close flushes the buffer and closes the backend. Calling it twice is a no-op.
func (b *Buffered) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	flushErr := b.flushLocked()
	closeErr := b.backend.Close()
	if flushErr != nil {
		return flushErr
	}
	return errors.Wrap(closeErr, "closing backend")
}

// Len returns the number of buffered records.
func (b *Buffered) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}

// Written returns the number of records handed to the backend so far.
func (b *Buffered) Written() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written
}

// Backend returns the wrapped backend.
func (b *Buffered) Backend() Backend {
	return b.backend
}

func (b *Buffered) flushLocked() error {
	if len(b.buffer) == 0 {
		return nil
	}

	if err := b.backend.Write(b.buffer); err != nil {
		return errors.Wrapf(err, "writing %d records", len(b.buffer))
	}

	log.WithField("records", len(b.buffer)).Debug("sink flushed")
	b.written += uint64(len(b.buffer))
	b.buffer = b.buffer[:0]
	return nil
}
