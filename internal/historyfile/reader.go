// Package historyfile reads the fastlin history file format: an optional
// leading "# <datatype>" line followed by whitespace-separated operation
// records. Grounded on history_reader in history_reader.h.
package historyfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fastlin/internal/model"
)

// ReadType reads the datatype tag from path's first line, if present. The
// first line must begin with '#'; its remainder is whitespace-trimmed and
// returned as the tag string. If the file has no such line, ReadType
// returns an empty string and no error; the caller decides whether a
// missing tag is fatal.
func ReadType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return "", nil
	}

	line := scanner.Text()
	if !strings.HasPrefix(line, "#") {
		return "", nil
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "#")), nil
}

// ReadHistory reads every operation record from path. Lines that are empty
// or comments (after trimming, start with '#') are skipped, including the
// leading datatype-tag line. Operation ids are assigned sequentially
// starting at 1, in file order. A malformed record (wrong field count,
// non-integer value/time, unknown method, start >= end) reports
// model.ErrMalformed.
func ReadHistory(path string) (model.History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var hist model.History
	var id uint64

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d: expected 4 fields, got %d", model.ErrMalformed, lineNo, len(fields))
		}

		method, err := model.ParseMethod(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		value, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad value %q", model.ErrMalformed, lineNo, fields[1])
		}
		start, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad start time %q", model.ErrMalformed, lineNo, fields[2])
		}
		end, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad end time %q", model.ErrMalformed, lineNo, fields[3])
		}
		if start < 0 || start >= end {
			return nil, fmt.Errorf("%w: line %d: start %d must be non-negative and less than end %d", model.ErrMalformed, lineNo, start, end)
		}

		id++
		hist = append(hist, &model.Operation{ID: id, Method: method, Value: value, Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return hist, nil
}
