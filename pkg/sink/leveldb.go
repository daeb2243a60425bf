package sink

import (
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

var levelDBWriteOptions = &opt.WriteOptions{Sync: true}

// levelDBBackend keys records by account id; the value is the JSON record.
type levelDBBackend struct {
	ldb *leveldb.DB
}

func openLevelDB(path string) (*levelDBBackend, error) {
	// Open leveldb. If it doesn't exist, create it.
	ldb, err := leveldb.OpenFile(path, nil)

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s", path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, err
		}
		log.Warnf("LevelDB recovered from corruption for path %s", path)
	}

	if err != nil {
		return nil, err
	}

	return &levelDBBackend{ldb: ldb}, nil
}

// Write stores the records in a single atomic batch.
func (db *levelDBBackend) Write(records []Record) error {
	batch := new(leveldb.Batch)
	for _, r := range records {
		value, err := json.Marshal(r)
		if err != nil {
			return errors.Wrapf(err, "encoding record %s", r.AccountID)
		}
		batch.Put([]byte(r.AccountID), value)
	}
	return db.ldb.Write(batch, levelDBWriteOptions)
}

func (db *levelDBBackend) Close() error {
	return db.ldb.Close()
}

// ReadAll returns the records ordered by account id.
func (db *levelDBBackend) ReadAll() ([]Record, error) {
	iter := db.ldb.NewIterator(nil, nil)
	defer iter.Release()

	var records []Record
	for iter.Next() {
		var r Record
		if err := json.Unmarshal(iter.Value(), &r); err != nil {
			return nil, errors.Wrapf(err, "decoding record %s", iter.Key())
		}
		records = append(records, r)
	}
	return records, iter.Error()
}
