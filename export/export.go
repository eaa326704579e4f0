// Package export writes emitted spans in the supported output formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jsphweid/barspan/model"
	"github.com/parquet-go/parquet-go"
)

type Format string

const (
	TextOut    Format = "text"
	JSONOut    Format = "json"
	CSVOut     Format = "csv"
	ParquetOut Format = "parquet"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case TextOut, JSONOut, CSVOut, ParquetOut:
		return f, nil
	case "":
		return TextOut, nil
	default:
		return "", fmt.Errorf("invalid output format '%s'. must be text, json, csv or parquet", s)
	}
}

// DefaultPath names a fresh export file in dir.
func DefaultPath(dir string, format Format) string {
	return filepath.Join(dir, uuid.New().String()+"."+string(format))
}

// WriteFile writes spans to path in the given format.
func WriteFile(path string, format Format, spans []model.Span) error {
	if format == ParquetOut {
		return WriteParquet(path, spans)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := Write(f, format, spans); err != nil {
		return err
	}
	return f.Close()
}

// Write renders spans to w. Parquet needs a file and goes through WriteFile.
func Write(w io.Writer, format Format, spans []model.Span) error {
	switch format {
	case TextOut:
		return WriteText(w, spans)
	case JSONOut:
		return WriteJSON(w, spans)
	case CSVOut:
		return WriteCSV(w, spans)
	default:
		return fmt.Errorf("format %s cannot be written to a stream", format)
	}
}

func WriteText(w io.Writer, spans []model.Span) error {
	label := color.New(color.FgCyan).SprintFunc()
	rating := color.New(color.FgGreen, color.Bold).SprintFunc()
	for _, s := range spans {
		_, err := fmt.Fprintf(w, "%s track=%d offset=%d bars=%s notes=%d palette=%q rating=%s\n",
			label(shortID(s.ID)), s.Track, s.Offset, joinInts(s.Bars, ","), s.Notes, s.Palette,
			rating(strconv.FormatFloat(s.Rating, 'f', 3, 64)))
		if err != nil {
			return err
		}
	}
	return nil
}

func WriteJSON(w io.Writer, spans []model.Span) error {
	if spans == nil {
		spans = []model.Span{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(spans)
}

func WriteCSV(w io.Writer, spans []model.Span) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "track", "offset", "palette", "bars", "rating", "notes"}); err != nil {
		return err
	}
	for _, s := range spans {
		rec := []string{
			s.ID,
			strconv.Itoa(s.Track),
			strconv.Itoa(s.Offset),
			s.Palette,
			joinInts(s.Bars, " "),
			strconv.FormatFloat(s.Rating, 'f', -1, 64),
			strconv.Itoa(s.Notes),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParquet writes spans to a Parquet file at path.
func WriteParquet(path string, spans []model.Span) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[model.Span](file)
	if _, err := writer.Write(spans); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return file.Close()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func joinInts(nums []int, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
