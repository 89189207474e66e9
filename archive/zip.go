package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/unzip"

	"github.com/rustyeddy/fxbook/trade"
)

// ReadZip extracts a zip archive of bulk-import CSV files and parses
// every .csv inside it, in lexical path order. Non-CSV entries are
// ignored.
func ReadZip(zipPath string) ([]trade.Input, error) {
	dir, err := os.MkdirTemp("", "fxbook-import-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := unzip.Extract(zipPath, dir); err != nil {
		return nil, fmt.Errorf("extract %s: %w", zipPath, err)
	}

	var csvPaths []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			csvPaths = append(csvPaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", zipPath, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files in %s", zipPath)
	}

	var out []trade.Input
	for _, p := range csvPaths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		inputs, err := ParseCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, inputs...)
	}
	return out, nil
}
