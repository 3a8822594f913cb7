// Package dataset reads and writes the session dataset as CSV.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/abhisek/diffeval/internal/artifact"
	"github.com/abhisek/diffeval/internal/session"
)

// DefaultFile is the dataset file name inside the working directory.
const DefaultFile = "difficulty_evaluation.csv"

// Columns is the dataset header in order.
var Columns = append(append([]string(nil), session.FeatureColumns...), session.ColEvaluation)

// Write encodes records as CSV with a header row.
func Write(w io.Writer, records []session.Record) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// Save writes records to path atomically.
func Save(path string, records []session.Record) error {
	return artifact.WriteFile(path, func(f *os.File) error {
		return Write(f, records)
	})
}

// Read decodes a CSV dataset. The header must contain every dataset column;
// extra columns are ignored.
func Read(r io.Reader) ([]session.Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if err := checkHeader(raw); err != nil {
		return nil, err
	}

	var records []session.Record
	if err := gocsv.UnmarshalBytes(raw, &records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return records, nil
}

// Load reads the dataset at path. Any failure is reported as an
// *artifact.LoadError.
func Load(path string) ([]session.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, artifact.NewLoadError(path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, artifact.NewLoadError(path, err)
	}
	return records, nil
}

func checkHeader(raw []byte) error {
	header, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if err == io.EOF {
		return fmt.Errorf("dataset is empty: no header row")
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, c := range Columns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dataset header missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
