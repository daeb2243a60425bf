package sink

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/pkg/errors"
)

// keysSeparator joins the public and secret key in the second CSV column.
const keysSeparator = "|"

// csvBackend appends rows of account_id, public|secret, seed_phrase, tag, code.
type csvBackend struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

func openCSV(path string) (*csvBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &csvBackend{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
	}, nil
}

func (c *csvBackend) Write(records []Record) error {
	for _, r := range records {
		row := []string{
			r.AccountID,
			r.PublicKey + keysSeparator + r.SecretKey,
			r.SeedPhrase,
			strconv.Itoa(int(r.Tag)),
			strconv.Itoa(int(r.Code)),
		}
		if err := c.writer.Write(row); err != nil {
			return err
		}
	}

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return err
	}
	return c.file.Sync()
}

func (c *csvBackend) Close() error {
	return c.file.Close()
}

func (c *csvBackend) ReadAll() ([]Record, error) {
	return ReadCSV(c.path)
}

// ReadCSV parses a file written by the CSV backend.
func ReadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 5

	var records []Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		record, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, line)
		}
		records = append(records, record)
	}
}

func parseRow(row []string) (Record, error) {
	public, secret, found := cutKeys(row[1])
	if !found {
		return Record{}, errors.Errorf("keys column %q has no %q", row[1], keysSeparator)
	}

	tag, err := strconv.ParseUint(row[3], 10, 8)
	if err != nil {
		return Record{}, errors.Wrap(err, "tag")
	}
	code, err := strconv.ParseUint(row[4], 10, 8)
	if err != nil {
		return Record{}, errors.Wrap(err, "code")
	}

	return Record{
		AccountID:  row[0],
		PublicKey:  public,
		SecretKey:  secret,
		SeedPhrase: row[2],
		Tag:        uint8(tag),
		Code:       beauty.Code(code),
	}, nil
}

func cutKeys(keys string) (public, secret string, found bool) {
	return strings.Cut(keys, keysSeparator)
}
