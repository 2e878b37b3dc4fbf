package availability

import (
	"sort"
	"time"
)

// SlotWidth is the fixed width of a generated slot.
const SlotWidth = 15 * time.Minute

// TimeSlot is one bookable interval [Start, End) within a day.
type TimeSlot struct {
	Start     Time `json:"start"`
	End       Time `json:"end"`
	Available bool `json:"available"`
}

func (s TimeSlot) Valid() bool {
	return s.Start.Valid() && s.End.Valid() && s.Start < s.End
}

// Overlaps reports whether two half-open slots share any minute.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.Start < o.End && o.Start < s.End
}

// GenerateTimeSlots splits [start, end) into SlotWidth slots, all available.
// A trailing remainder shorter than SlotWidth is dropped, and start >= end
// yields no slots.
func GenerateTimeSlots(start, end Time) []TimeSlot {
	var slots []TimeSlot
	for cur := start; cur.Add(SlotWidth) <= end; cur = cur.Add(SlotWidth) {
		slots = append(slots, TimeSlot{Start: cur, End: cur.Add(SlotWidth), Available: true})
	}
	return slots
}

func cloneSlots(slots []TimeSlot) []TimeSlot {
	if slots == nil {
		return nil
	}
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	return out
}

func sortSlots(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		return slots[i].End < slots[j].End
	})
}

// Interval is a busy half-open range of a day, e.g. an existing booking.
type Interval struct {
	Start Time
	End   Time
}

// Subtract drops every slot overlapping one of the busy intervals.
func Subtract(slots []TimeSlot, busy []Interval) []TimeSlot {
	var free []TimeSlot
	for _, s := range slots {
		taken := false
		for _, b := range busy {
			if s.Start < b.End && b.Start < s.End {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, s)
		}
	}
	return free
}

// Openings lists the windows of length d that can be booked from slots. A
// window starts at the start of an available slot and must be covered by it
// and, where d is longer, by the contiguous available slots that follow.
func Openings(slots []TimeSlot, d time.Duration) []TimeSlot {
	if d <= 0 {
		return nil
	}
	free := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Available && s.Valid() {
			free = append(free, s)
		}
	}
	sortSlots(free)

	var out []TimeSlot
	for i, s := range free {
		want := s.Start.Add(d)
		reach := s.End
		for j := i + 1; reach < want && j < len(free) && free[j].Start == reach; j++ {
			reach = free[j].End
		}
		if reach >= want {
			out = append(out, TimeSlot{Start: s.Start, End: want, Available: true})
		}
	}
	return out
}
