package availability

import "fmt"

// RegeneratePolicy decides what happens to a day's slots when its working
// hours change.
type RegeneratePolicy int

const (
	// PolicyRegenerate rebuilds the slot list from scratch; manual edits are lost.
	PolicyRegenerate RegeneratePolicy = iota
	// PolicyMergePreserveCustom rebuilds the grid but keeps availability flags
	// of grid-aligned slots and any custom slot still inside the new hours.
	PolicyMergePreserveCustom
)

// OverlapPolicy decides how SaveDay treats overlapping slots.
type OverlapPolicy int

const (
	OverlapReject OverlapPolicy = iota
	OverlapMerge
)

func ParseRegeneratePolicy(s string) (RegeneratePolicy, error) {
	switch s {
	case "", "regenerate":
		return PolicyRegenerate, nil
	case "merge", "merge-preserve-custom":
		return PolicyMergePreserveCustom, nil
	}
	return 0, fmt.Errorf("unknown regenerate policy %q", s)
}

func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch s {
	case "", "reject":
		return OverlapReject, nil
	case "merge":
		return OverlapMerge, nil
	}
	return 0, fmt.Errorf("unknown overlap policy %q", s)
}

func (p RegeneratePolicy) apply(current []TimeSlot, start, end Time) []TimeSlot {
	generated := GenerateTimeSlots(start, end)
	if p != PolicyMergePreserveCustom {
		return generated
	}

	grid := make(map[TimeSlot]int, len(generated))
	for i, s := range generated {
		grid[TimeSlot{Start: s.Start, End: s.End}] = i
	}

	var custom []TimeSlot
	for _, s := range current {
		if i, ok := grid[TimeSlot{Start: s.Start, End: s.End}]; ok {
			generated[i].Available = s.Available
			continue
		}
		if s.Valid() && s.Start >= start && s.End <= end {
			custom = append(custom, s)
		}
	}
	if len(custom) == 0 {
		return generated
	}

	merged := make([]TimeSlot, 0, len(generated)+len(custom))
	for _, g := range generated {
		covered := false
		for _, c := range custom {
			if g.Overlaps(c) {
				covered = true
				break
			}
		}
		if !covered {
			merged = append(merged, g)
		}
	}
	merged = append(merged, custom...)
	sortSlots(merged)
	return merged
}

// resolve validates a day's slots and returns them in chronological order.
func (p OverlapPolicy) resolve(slots []TimeSlot) ([]TimeSlot, error) {
	out := cloneSlots(slots)
	for i, s := range out {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: slot %d (%s-%s)", ErrInvalidSlot, i, s.Start, s.End)
		}
	}
	sortSlots(out)

	if p == OverlapMerge {
		return mergeOverlapping(out), nil
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Overlaps(out[i]) {
			return nil, fmt.Errorf("%w: %s-%s and %s-%s", ErrOverlappingSlots,
				out[i-1].Start, out[i-1].End, out[i].Start, out[i].End)
		}
	}
	return out, nil
}

// mergeOverlapping expects sorted input. A merged slot stays available only if
// every part was.
func mergeOverlapping(sorted []TimeSlot) []TimeSlot {
	if len(sorted) == 0 {
		return sorted
	}
	out := []TimeSlot{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s.Start < last.End {
			if s.End > last.End {
				last.End = s.End
			}
			last.Available = last.Available && s.Available
			continue
		}
		out = append(out, s)
	}
	return out
}
