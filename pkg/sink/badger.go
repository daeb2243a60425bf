package sink

import (
	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

// badgerBackend upserts records keyed by account id, indexed by code.
type badgerBackend struct {
	store *badgerhold.Store
}

func openBadger(dir string) (*badgerBackend, error) {
	store, err := createDb(dir, log.WithField("sink", "badger"))
	if err != nil {
		return nil, err
	}
	return &badgerBackend{store: store}, nil
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// Write upserts the records in one transaction.
func (b *badgerBackend) Write(records []Record) error {
	return b.store.Badger().Update(func(tx *badger.Txn) error {
		for _, r := range records {
			if err := b.store.TxUpsert(tx, r.AccountID, r); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerBackend) Close() error {
	return b.store.Close()
}

func (b *badgerBackend) ReadAll() ([]Record, error) {
	var records []Record
	if err := b.store.Find(&records, nil); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByCode returns the records classified as code.
func (b *badgerBackend) FindByCode(code beauty.Code) ([]Record, error) {
	var records []Record
	query := badgerhold.Where("Code").Eq(code).Index("Code")
	if err := b.store.Find(&records, query); err != nil {
		return nil, err
	}
	return records, nil
}
