package sink

import (
	"context"
	"time"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

const (
	postgresTable        = "vanity_beauty"
	postgresWriteTimeout = 30 * time.Second

	createTableQuery = `CREATE TABLE IF NOT EXISTS vanity_beauty (
	id   TEXT     NOT NULL,
	keys TEXT     NOT NULL,
	seed TEXT     NOT NULL,
	tvc  SMALLINT NOT NULL,
	rule SMALLINT NOT NULL
)`

	selectAllQuery = `SELECT id, keys, seed, tvc, rule FROM vanity_beauty ORDER BY id`
)

var postgresColumns = []string{"id", "keys", "seed", "tvc", "rule"}

// postgresBackend streams every batch into vanity_beauty with COPY.
type postgresBackend struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, dataSource string) (*postgresBackend, error) {
	pool, err := pgxpool.Connect(ctx, dataSource)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, createTableQuery); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "creating table")
	}

	return &postgresBackend{pool: pool}, nil
}

func (p *postgresBackend) Write(records []Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresWriteTimeout)
	defer cancel()

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.AccountID,
			r.PublicKey + keysSeparator + r.SecretKey,
			r.SeedPhrase,
			int16(r.Tag),
			int16(r.Code),
		})
	}

	copied, err := p.pool.CopyFrom(ctx, pgx.Identifier{postgresTable}, postgresColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return err
	}
	if copied != int64(len(rows)) {
		return errors.Errorf("copied %d of %d rows", copied, len(rows))
	}
	return nil
}

func (p *postgresBackend) Close() error {
	p.pool.Close()
	return nil
}

func (p *postgresBackend) ReadAll() ([]Record, error) {
	ctx := context.Background()
	rows, err := p.pool.Query(ctx, selectAllQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			keys      string
			tag, rule int16
			r         Record
		)
		if err := rows.Scan(&r.AccountID, &keys, &r.SeedPhrase, &tag, &rule); err != nil {
			return nil, err
		}
		public, secret, _ := cutKeys(keys)
		r.PublicKey, r.SecretKey = public, secret
		r.Tag, r.Code = uint8(tag), beauty.Code(rule)
		records = append(records, r)
	}
	return records, rows.Err()
}
