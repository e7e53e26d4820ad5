package docimport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeActivity writes a as one JSON line.
func EncodeActivity(w io.Writer, a *Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal activity %v: %w", a, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write activity: %w", err)
	}
	return nil
}

// EncodeActivities writes activities in JSONL format, in chronological
// order. The sort is stable so same-instant activities keep their order.
func EncodeActivities(w io.Writer, activities []*Activity) error {
	sorted := slices.Clone(activities)
	slices.SortStableFunc(sorted, func(a, b *Activity) int { return a.Datetime.Compare(b.Datetime) })
	for _, a := range sorted {
		if err := EncodeActivity(w, a); err != nil {
			return err
		}
	}
	return nil
}

// DecodeActivities reads activities written by EncodeActivities. Empty
// lines are skipped. Activities are returned as read, not validated.
func DecodeActivities(r io.Reader) ([]*Activity, error) {
	var activities []*Activity
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		a := new(Activity)
		if err := json.Unmarshal(lineBytes, a); err != nil {
			return nil, fmt.Errorf("line %d: could not decode activity %q: %w", line, string(lineBytes), err)
		}
		activities = append(activities, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return activities, nil
}
