/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package resultstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// defaultFlushEvery is how many appended records trigger a flush to disk,
// so a killed run loses at most one flush window of results.
const defaultFlushEvery = 10

// Writer appends records to a JSONL file. Safe for concurrent use.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	buf        *bufio.Writer
	count      int
	flushEvery int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithFlushEvery sets the incremental-flush interval in records.
func WithFlushEvery(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.flushEvery = n
		}
	}
}

// NewWriter creates or truncates the JSONL file at path.
func NewWriter(path string, opts ...WriterOption) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating result file: %w", err)
	}
	w := &Writer{
		file:       file,
		buf:        bufio.NewWriter(file),
		flushEvery: defaultFlushEvery,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Append writes one record as a JSONL line, flushing periodically.
func (w *Writer) Append(record *Record) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf == nil {
		return fmt.Errorf("writer is closed")
	}
	if _, err := w.buf.Write(line); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	w.count++
	if w.count%w.flushEvery == 0 {
		if err := w.buf.Flush(); err != nil {
			return fmt.Errorf("flushing records: %w", err)
		}
	}
	return nil
}

// Count reports how many records have been appended.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes buffered records and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf == nil {
		return nil
	}
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	w.buf = nil
	if flushErr != nil {
		return fmt.Errorf("flushing records: %w", flushErr)
	}
	return closeErr
}

// ReadAll loads every record from a JSONL result file. Lines that do not
// parse are returned as an error with their line number.
func ReadAll(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening result file: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	return records, nil
}
