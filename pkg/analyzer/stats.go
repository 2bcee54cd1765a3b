package analyzer

import "math"

// Aggregate summarizes the finite values of s. With a non-nil mask only
// rows whose mask entry is true are counted; rows past the end of the mask
// are excluded. It returns nil when no value qualifies.
func Aggregate(s Series, mask []bool) *Stats {
	var st Stats
	sum := 0.0
	for i, v := range s {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		if mask != nil && (i >= len(mask) || !mask[i]) {
			continue
		}
		if st.Count == 0 || *v < st.Min {
			st.Min = *v
		}
		if st.Count == 0 || *v > st.Max {
			st.Max = *v
		}
		sum += *v
		st.Count++
	}
	if st.Count == 0 {
		return nil
	}
	st.Avg = sum / float64(st.Count)
	return &st
}
