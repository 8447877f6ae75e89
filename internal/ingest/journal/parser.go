// Package journal parses feedback journals: JSON batches and the CSV
// export of the workout log.
package journal

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/claude/flexifit/internal/models"
)

// Header is the CSV column order.
var Header = []string{"exercise_id", "difficulty", "fatigue", "enjoyment", "completed_at", "notes"}

// Entry is one parsed journal line. Err is set when the line could not be
// turned into feedback; Line is 1-based (0 for JSON input).
type Entry struct {
	Line     int
	Feedback models.UserFeedback
	Err      error
}

// Parse picks the parser from the file name: CSV for .csv, JSON otherwise.
func Parse(name string, r io.Reader) ([]Entry, error) {
	if BaseExt(name) == ".csv" {
		return ParseCSV(r)
	}
	return ParseJSON(r)
}

// ParseJSON reads either a bare array of feedback objects or an object with
// a "feedback" array.
func ParseJSON(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, err
	}

	var list []models.UserFeedback
	dec := json.NewDecoder(br)
	if first == '[' {
		err = dec.Decode(&list)
	} else {
		var wrapped struct {
			Feedback []models.UserFeedback `json:"feedback"`
		}
		err = dec.Decode(&wrapped)
		list = wrapped.Feedback
	}
	if err != nil {
		return nil, fmt.Errorf("decoding feedback JSON: %w", err)
	}

	out := make([]Entry, len(list))
	for i, f := range list {
		f.Notes = strings.TrimSpace(f.Notes)
		out[i] = Entry{Feedback: f, Err: f.Validate()}
	}
	return out, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("empty feedback JSON")
			}
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}

// ParseCSV reads a CSV journal. The header row is optional; notes may be
// omitted. Malformed rows come back with Err set, a malformed file with
// an error.
func ParseCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(out) == 0 && isHeader(rec) {
			continue
		}
		f, err := parseRecord(rec)
		if err == nil {
			err = f.Validate()
		}
		if err != nil {
			err = fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, Entry{Line: line, Feedback: f, Err: err})
	}
	return out, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), Header[0])
}

func parseRecord(rec []string) (models.UserFeedback, error) {
	var f models.UserFeedback
	if len(rec) < 5 || len(rec) > 6 {
		return f, fmt.Errorf("want 5 or 6 fields, got %d", len(rec))
	}
	f.ExerciseID = strings.TrimSpace(rec[0])

	ratings := []*int{&f.Difficulty, &f.Fatigue, &f.Enjoyment}
	for i, dst := range ratings {
		v, err := strconv.Atoi(strings.TrimSpace(rec[i+1]))
		if err != nil {
			return f, fmt.Errorf("%s: %w", Header[i+1], err)
		}
		*dst = v
	}

	t, err := ParseTime(rec[4])
	if err != nil {
		return f, err
	}
	f.CompletedAt = t
	if len(rec) == 6 {
		f.Notes = strings.TrimSpace(rec[5])
	}
	return f, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts RFC 3339 or a plain UTC date with optional time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse completed_at %q", s)
}

// WriteCSV writes entries in journal format with a header row.
func WriteCSV(w io.Writer, entries []models.UserFeedback) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, f := range entries {
		rec := []string{
			f.ExerciseID,
			strconv.Itoa(f.Difficulty),
			strconv.Itoa(f.Fatigue),
			strconv.Itoa(f.Enjoyment),
			f.CompletedAt.UTC().Format(time.RFC3339),
			f.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
