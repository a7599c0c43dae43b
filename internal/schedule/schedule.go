// Package schedule holds the pure slot-sequence logic: generating the daily
// slot labels, resolving a start/end pair to a contiguous range, and the
// join/split rules for multi-slot labels.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LabelSeparator splits an "HH:MM - HH:MM" label into its two times.
	LabelSeparator = " - "
	// SlotSeparator joins contiguous slot labels in a multi-slot booking.
	SlotSeparator = " & "
)

var (
	ErrInvalidRange = errors.New("invalid time range")
	ErrUnknownSlot  = errors.New("unknown time slot")
	ErrEmptySlots   = errors.New("no time slots configured")
)

// Sequence is the ordered list of slot labels for a facility day. Position in
// the sequence defines adjacency for contiguous multi-slot bookings.
type Sequence []string

// Generate builds the sequence from an opening time, a closing time and a
// slot duration, all slots zero-padded 24-hour "HH:MM - HH:MM" labels.
func Generate(opening, closing string, slotMinutes int) (Sequence, error) {
	const op = "schedule.Generate"

	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%s: slot duration must be positive", op)
	}

	opens, err := time.Parse("15:04", opening)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid opening time %q", op, opening)
	}

	closes, err := time.Parse("15:04", closing)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid closing time %q", op, closing)
	}

	if !closes.After(opens) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidRange)
	}

	step := time.Duration(slotMinutes) * time.Minute

	var seq Sequence
	for cur := opens; !cur.Add(step).After(closes); cur = cur.Add(step) {
		seq = append(seq, cur.Format("15:04")+LabelSeparator+cur.Add(step).Format("15:04"))
	}

	if len(seq) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrEmptySlots)
	}

	return seq, nil
}

// Index returns the position of label in the sequence, or -1.
func (s Sequence) Index(label string) int {
	for i, l := range s {
		if l == label {
			return i
		}
	}
	return -1
}

// Range is a contiguous run of slots, inclusive indices into a Sequence.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Range resolves two labels from the sequence into the inclusive run between
// them. The start label must strictly precede the end label.
func (s Sequence) Range(startLabel, endLabel string) (Range, error) {
	const op = "schedule.Range"

	start := s.Index(startLabel)
	if start < 0 {
		return Range{}, fmt.Errorf("%s: %q:%w", op, startLabel, ErrUnknownSlot)
	}

	end := s.Index(endLabel)
	if end < 0 {
		return Range{}, fmt.Errorf("%s: %q:%w", op, endLabel, ErrUnknownSlot)
	}

	if start > end {
		return Range{}, fmt.Errorf("%s:%w", op, ErrInvalidRange)
	}

	return Range{Start: start, End: end}, nil
}

// RangeByTimes resolves an "HH:MM" start/end pair to the run of slots whose
// first slot starts at start and whose last slot ends at end. The end time
// must be strictly after the start time.
func (s Sequence) RangeByTimes(start, end string) (Range, error) {
	const op = "schedule.RangeByTimes"

	if start >= end {
		return Range{}, fmt.Errorf("%s:%w", op, ErrInvalidRange)
	}

	startIdx, endIdx := -1, -1
	for i, label := range s {
		if strings.HasPrefix(label, start+LabelSeparator) {
			startIdx = i
		}
		if strings.HasSuffix(label, LabelSeparator+end) {
			endIdx = i
		}
	}

	if startIdx < 0 || endIdx < 0 || startIdx > endIdx {
		return Range{}, fmt.Errorf("%s:%w", op, ErrInvalidRange)
	}

	return Range{Start: startIdx, End: endIdx}, nil
}

// Labels returns the slot labels covered by r.
func (s Sequence) Labels(r Range) []string {
	if r.Start < 0 || r.End >= len(s) || r.Start > r.End {
		return nil
	}
	out := make([]string, 0, r.Len())
	out = append(out, s[r.Start:r.End+1]...)
	return out
}

// Contiguous reports whether labels appear as one consecutive run in the
// sequence, in order.
func (s Sequence) Contiguous(labels []string) bool {
	if len(labels) == 0 {
		return false
	}
	start := s.Index(labels[0])
	if start < 0 || start+len(labels) > len(s) {
		return false
	}
	for i, l := range labels {
		if s[start+i] != l {
			return false
		}
	}
	return true
}

// Join serializes slot labels to the stored multi-slot form.
func Join(labels []string) string {
	return strings.Join(labels, SlotSeparator)
}

// Split breaks a stored timeSlot value into its individual slot labels.
func Split(timeSlot string) []string {
	if timeSlot == "" {
		return nil
	}
	return strings.Split(timeSlot, SlotSeparator)
}

// Intersects reports whether the two label sets share at least one slot.
func Intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ValidLabel reports whether label looks like "HH:MM - HH:MM".
func ValidLabel(label string) bool {
	parts := strings.Split(label, LabelSeparator)
	if len(parts) != 2 {
		return false
	}
	for _, p := range parts {
		t, err := time.Parse("15:04", p)
		// time.Parse accepts unpadded hours, the stored form does not
		if err != nil || t.Format("15:04") != p {
			return false
		}
	}
	return true
}
