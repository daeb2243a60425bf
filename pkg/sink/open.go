package sink

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies a backend.
type Kind int

const (
	CSV Kind = iota
	LevelDB
	Badger
	Postgres
	Memory
)

func (k Kind) String() string {
	switch k {
	case CSV:
		return "csv"
	case LevelDB:
		return "leveldb"
	case Badger:
		return "badger"
	case Postgres:
		return "postgres"
	case Memory:
		return "memory"
	default:
		return "unknown"
	}
}

var ErrEmptyDestination = errors.New("empty sink destination")

// ParseDestination splits a destination into its backend kind and the
// location that backend understands. Destinations without a known scheme
// are CSV file paths.
func ParseDestination(destination string) (Kind, string, error) {
	switch {
	case destination == "":
		return 0, "", ErrEmptyDestination
	case strings.HasPrefix(destination, "postgres://"), strings.HasPrefix(destination, "postgresql://"):
		return Postgres, destination, nil
	case strings.HasPrefix(destination, "leveldb://"):
		return withLocation(LevelDB, strings.TrimPrefix(destination, "leveldb://"))
	case strings.HasPrefix(destination, "badger://"):
		return withLocation(Badger, strings.TrimPrefix(destination, "badger://"))
	case strings.HasPrefix(destination, "memory://"):
		return Memory, "", nil
	case strings.HasPrefix(destination, "csv://"):
		return withLocation(CSV, strings.TrimPrefix(destination, "csv://"))
	default:
		return CSV, destination, nil
	}
}

func withLocation(kind Kind, location string) (Kind, string, error) {
	if location == "" {
		return 0, "", errors.Wrapf(ErrEmptyDestination, "%s needs a location", kind)
	}
	return kind, location, nil
}

// OpenBackend opens the backend named by destination.
func OpenBackend(ctx context.Context, destination string) (Backend, error) {
	kind, location, err := ParseDestination(destination)
	if err != nil {
		return nil, err
	}

	var backend Backend
	switch kind {
	case Postgres:
		backend, err = openPostgres(ctx, location)
	case LevelDB:
		backend, err = openLevelDB(location)
	case Badger:
		backend, err = openBadger(location)
	case Memory:
		backend = NewMemory()
	default:
		backend, err = openCSV(location)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s sink", kind)
	}
	return backend, nil
}

// Open opens the backend named by destination behind a Buffered sink.
func Open(ctx context.Context, destination string, capacity int) (*Buffered, error) {
	backend, err := OpenBackend(ctx, destination)
	if err != nil {
		return nil, err
	}
	return NewBuffered(backend, capacity), nil
}
