// Package accounts reads wallet records: private key plus optional proxy.
package accounts

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	keyColumn   = "Private key"
	proxyColumn = "Proxy"
)

// Record is one input row. Proxy is empty for a direct connection.
type Record struct {
	PrivateKey string
	Proxy      string
}

// Load picks the reader by file extension: .xlsx sheets or plain text lists.
func Load(path, sheet string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, sheet)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "error opening %s", path)
		}
		defer f.Close()
		return ReadText(f)
	}
}

// LoadXLSX reads the "Private key" and "Proxy" columns of sheet, the first
// sheet when sheet is empty. Rows without a key are skipped.
func LoadXLSX(path, sheet string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	keyIdx, proxyIdx := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case keyColumn:
			keyIdx = i
		case proxyColumn:
			proxyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, errors.Errorf("column %q not found in sheet %q", keyColumn, sheet)
	}

	var records []Record
	for _, row := range rows[1:] {
		key := cell(row, keyIdx)
		if key == "" {
			continue
		}
		records = append(records, Record{PrivateKey: key, Proxy: cell(row, proxyIdx)})
	}
	return records, nil
}

// ReadText reads one wallet per line as "key" or "key;proxy".
// Blank lines and lines starting with # are ignored.
func ReadText(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, proxy, _ := strings.Cut(line, ";")
		records = append(records, Record{
			PrivateKey: strings.TrimSpace(key),
			Proxy:      strings.TrimSpace(proxy),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading wallets")
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
