// Package report reads raw angle values and writes normalized results as
// plain text or CSV.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gocarina/gocsv"
)

// Record pairs one input value with its normalized output.
type Record struct {
	Index  int     `csv:"index"`
	Input  float64 `csv:"input"`
	Output float64 `csv:"output"`
}

// Records zips inputs and outputs into records numbered from offset.
// Both slices must have equal length.
func Records(offset int, inputs, outputs []float64) ([]Record, error) {
	if len(inputs) != len(outputs) {
		return nil, fmt.Errorf("length mismatch: %d inputs, %d outputs", len(inputs), len(outputs))
	}
	records := make([]Record, len(inputs))
	for i := range inputs {
		records[i] = Record{Index: offset + i, Input: inputs[i], Output: outputs[i]}
	}
	return records, nil
}

// Writer writes records in one format. The CSV header is written once,
// before the first batch.
type Writer struct {
	out       io.Writer
	format    string
	precision int

	headerWritten bool
}

// Formats understood by Writer.
const (
	FormatText = "text"
	FormatCSV  = "csv"
)

// NewWriter returns a writer for format. precision applies to text output;
// -1 selects the shortest representation that round-trips.
func NewWriter(out io.Writer, format string, precision int) (*Writer, error) {
	switch format {
	case FormatText, FormatCSV:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &Writer{out: out, format: format, precision: precision}, nil
}

// Write writes one batch of records.
func (w *Writer) Write(records []Record) error {
	if w.format == FormatCSV {
		return w.writeCSV(records)
	}

	bw := bufio.NewWriter(w.out)
	for _, r := range records {
		if _, err := bw.WriteString(strconv.FormatFloat(r.Output, 'f', w.precision, 64)); err != nil {
			return fmt.Errorf("writing text: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing text: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing text: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	if !w.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		w.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// ReadValues parses whitespace-separated numbers from r.
func ReadValues(r io.Reader) ([]float64, error) {
	var values []float64
	err := ReadBatches(r, 1024, func(batch []float64) error {
		values = append(values, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// ReadBatches parses whitespace-separated numbers from r and hands them to
// fn in batches of size (the last batch may be shorter). fn owns each batch.
// Reading stops at the first parse error or error from fn.
func ReadBatches(r io.Reader, size int, fn func(batch []float64) error) error {
	if size <= 0 {
		return fmt.Errorf("batch size must be > 0, got %d", size)
	}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	batch := make([]float64, 0, size)
	for sc.Scan() {
		v, err := ParseValue(sc.Text())
		if err != nil {
			return err
		}
		batch = append(batch, v)
		if len(batch) == size {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]float64, 0, size)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading values: %w", err)
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

// ParseValue parses a single angle value. Non-finite values are rejected.
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing value %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parsing value %q: not finite", s)
	}
	return v, nil
}
