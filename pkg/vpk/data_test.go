// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"errors"
	"reflect"
	"testing"
)

func TestData_Records(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		wantColumns []string
		wantRecords []Record
	}{
		{
			name:        "header and rows",
			raw:         labelCsv,
			wantColumns: []string{"id", "name"},
			wantRecords: []Record{{"id": "1", "name": "alpha"}, {"id": "2", "name": "beta"}},
		},
		{
			name:        "byte order mark is stripped",
			raw:         "\ufeffid,name\n1,alpha\n",
			wantColumns: []string{"id", "name"},
			wantRecords: []Record{{"id": "1", "name": "alpha"}},
		},
		{
			name:        "short row carries only present columns",
			raw:         "id,name,extra\n1,alpha\n",
			wantColumns: []string{"id", "name", "extra"},
			wantRecords: []Record{{"id": "1", "name": "alpha"}},
		},
		{
			name:        "long row drops unnamed cells",
			raw:         "id\n1,surplus\n",
			wantColumns: []string{"id"},
			wantRecords: []Record{{"id": "1"}},
		},
		{
			name:        "quoted cells",
			raw:         "id,note\n1,\"a, b\"\n",
			wantColumns: []string{"id", "note"},
			wantRecords: []Record{{"id": "1", "note": "a, b"}},
		},
		{
			name:        "header only",
			raw:         "id,name\n",
			wantColumns: []string{"id", "name"},
		},
		{
			name: "empty",
			raw:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := NewData(tt.raw)
			records, err := d.Records()
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			columns, err := d.Columns()
			if err != nil {
				t.Fatalf("Columns() error = %v", err)
			}
			if !reflect.DeepEqual(columns, tt.wantColumns) {
				t.Errorf("Columns() = %v, want %v", columns, tt.wantColumns)
			}
			if !reflect.DeepEqual(records, tt.wantRecords) {
				t.Errorf("Records() = %v, want %v", records, tt.wantRecords)
			}
			if d.Raw() != tt.raw {
				t.Errorf("Raw() changed: %q", d.Raw())
			}
		})
	}
}

func TestData_RecordsMalformed(t *testing.T) {
	t.Parallel()

	d := NewData("id,name\n1,\"unterminated\n")
	if _, err := d.Records(); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("Records() error = %v, want ErrInvalidDocument", err)
	}
	// The failure is cached like a success.
	if _, err := d.Columns(); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("Columns() error = %v, want ErrInvalidDocument", err)
	}
}

func TestData_Checksum(t *testing.T) {
	t.Parallel()

	d := NewData(labelCsv)
	first := d.Checksum()
	if first != md5Hex(labelCsv) {
		t.Errorf("Checksum() = %q, want %q", first, md5Hex(labelCsv))
	}
	if len(first) != 32 {
		t.Errorf("Checksum() length = %d, want 32", len(first))
	}
	if again := d.Checksum(); again != first {
		t.Errorf("Checksum() changed between calls: %q != %q", again, first)
	}
	if other := NewData(labelCsv + "3,gamma\n").Checksum(); other == first {
		t.Error("different datasets should have different checksums")
	}
}

func TestMd5Hex_KnownVector(t *testing.T) {
	t.Parallel()

	if got := md5Hex(""); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("md5Hex(\"\") = %q", got)
	}
}
