package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/calendar/internal/model"
)

const (
	fieldSep     = '|'
	headerPrefix = "# calendar tasks v"
)

// ErrMalformedLine marks a task file line that cannot be split into a date,
// tag, description and paired date/time fields. Decode skips such lines and
// reports them joined, so errors.Is works on the combined error.
var ErrMalformedLine = errors.New("malformed task line")

// Encode writes snap in the current file format: a version header followed by
// one line per task, dates in calendar order and tasks in list order.
func Encode(w io.Writer, snap Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%d\n", headerPrefix, currentVersion)

	for _, date := range snap.Dates() {
		for _, rec := range snap[date] {
			fields := make([]string, 0, 4+len(rec.Dates)+len(rec.Times))
			fields = append(fields, date.String(), rec.Tag, rec.Description, priorityOrNone(rec.Priority))
			fields = append(fields, rec.Dates...)
			fields = append(fields, rec.Times...)
			bw.WriteString(joinFields(fields))
			bw.WriteByte('\n')
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing tasks: %w", err)
	}
	return nil
}

// Decode reads a task file of any known version. Files written before the
// header existed are version 1 and are upgraded in memory. Lines that cannot
// be decoded are skipped and reported in the returned error alongside the
// snapshot of everything that could.
func Decode(r io.Reader) (Snapshot, error) {
	snap := make(Snapshot)
	version := 1
	seenContent := false

	var errs []error
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if !seenContent {
				if v, ok := parseHeader(line); ok {
					version = v
				}
			}
			continue
		}
		seenContent = true

		date, rec, err := decodeLine(line, version)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		snap[date] = append(snap[date], rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	return snap, errors.Join(errs...)
}

func parseHeader(line string) (int, bool) {
	if !strings.HasPrefix(line, headerPrefix) {
		return 0, false
	}
	var v int
	if _, err := fmt.Sscanf(strings.TrimPrefix(line, headerPrefix), "%d", &v); err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

func decodeLine(line string, version int) (model.Date, Record, error) {
	fields, err := splitFields(line)
	if err != nil {
		return model.Date{}, Record{}, err
	}
	fields, err = upgradeFields(fields, version)
	if err != nil {
		return model.Date{}, Record{}, err
	}
	if len(fields) < 4 {
		return model.Date{}, Record{}, fmt.Errorf("%w: want at least 4 fields, got %d", ErrMalformedLine, len(fields))
	}

	date, err := model.ParseDate(fields[0])
	if err != nil {
		return model.Date{}, Record{}, err
	}

	rest := fields[4:]
	if len(rest)%2 != 0 {
		return model.Date{}, Record{}, fmt.Errorf("%w: %d date/time fields do not pair up", ErrMalformedLine, len(rest))
	}

	rec := Record{
		Tag:         fields[1],
		Description: fields[2],
		Priority:    fields[3],
	}
	if n := len(rest) / 2; n > 0 {
		rec.Dates = rest[:n]
		rec.Times = rest[n:]
	}
	return date, rec, nil
}

func priorityOrNone(p string) string {
	if p == "" {
		return model.PriorityNone.String()
	}
	return p
}

func joinFields(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(fieldSep)
		}
		b.WriteString(escapeField(f))
	}
	return b.String()
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, "\\|\n\r") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case fieldSep:
			b.WriteString(`\|`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitFields splits line on unescaped separators and unescapes each field.
func splitFields(line string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		escape bool
	)
	for _, r := range line {
		if escape {
			switch r {
			case '\\', fieldSep:
				cur.WriteRune(r)
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			default:
				return nil, fmt.Errorf("%w: unknown escape \\%c", ErrMalformedLine, r)
			}
			escape = false
			continue
		}
		switch r {
		case '\\':
			escape = true
		case fieldSep:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escape {
		return nil, fmt.Errorf("%w: trailing backslash", ErrMalformedLine)
	}
	return append(fields, cur.String()), nil
}
