// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

const utf8BOM = "\ufeff"

type (
	// Record is one dataset row keyed by column name. A row shorter than the
	// header only carries the columns it actually has.
	Record map[string]string

	// Data is an immutable CSV dataset. Rows and the checksum are derived on
	// first access and cached.
	Data struct {
		raw string

		parseOnce sync.Once
		columns   []string
		records   []Record
		parseErr  error

		sumOnce  sync.Once
		checksum string
	}
)

// NewData wraps raw CSV text.
func NewData(raw string) *Data {
	return &Data{raw: raw}
}

// Raw returns the dataset text exactly as loaded.
func (d *Data) Raw() string { return d.raw }

// Records returns the rows below the header, in file order.
func (d *Data) Records() ([]Record, error) {
	d.parse()
	return d.records, d.parseErr
}

// Columns returns the header row.
func (d *Data) Columns() ([]string, error) {
	d.parse()
	return d.columns, d.parseErr
}

// Checksum returns the lower-case hex MD5 digest of the raw text.
func (d *Data) Checksum() string {
	d.sumOnce.Do(func() {
		d.checksum = md5Hex(d.raw)
	})
	return d.checksum
}

func (d *Data) parse() {
	d.parseOnce.Do(func() {
		d.columns, d.records, d.parseErr = parseRecords(d.raw)
	})
}

func parseRecords(raw string) ([]string, []Record, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(raw, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &ComponentError{Kind: ErrInvalidDocument, Detail: fmt.Sprintf("dataset header: %v", err)}
	}

	var records []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &ComponentError{Kind: ErrInvalidDocument, Detail: fmt.Sprintf("dataset row: %v", err)}
		}

		rec := make(Record, min(len(row), len(header)))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = cell
		}
		records = append(records, rec)
	}
	return header, records, nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
