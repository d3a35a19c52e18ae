package domain

// One timing-advance bucket: the farthest distance it represents and the
// label used when reporting it.
type Bucket struct {
	MaxDistanceMeters float64
	Label             string
}

// BucketTable maps a histogram bin index to its distance range.
// Entries are ordered from nearest to farthest.
type BucketTable []Bucket

// DefaultBucketTable returns the LTE timing-advance ranges for the 12
// L_RA_TA_UE_Index counters. The last bucket is open ended; its distance
// is a nominal cap.
func DefaultBucketTable() BucketTable {
	return BucketTable{
		{156, "0 - 156 mts"},
		{234, "156 - 234 mts"},
		{546, "234 - 546 mts"},
		{1014, "546 - 1014 mts"},
		{1900, "1.01 - 1.9 Km"},
		{3500, "1.9 - 3.5 Km"},
		{6600, "3.5 - 6.6 Km"},
		{14400, "6.6 - 14.4 Km"},
		{30000, "14.4  - 30 Km"},
		{53000, "30 - 53 Km"},
		{76000, "53 - 76 Km"},
		{100000, "76.8 - ... Km"},
	}
}

// Lookup returns the bucket at index i.
func (t BucketTable) Lookup(i int) (Bucket, bool) {
	if i < 0 || i >= len(t) {
		return Bucket{}, false
	}
	return t[i], true
}

// Clone returns a copy that does not share storage with t.
func (t BucketTable) Clone() BucketTable {
	out := make(BucketTable, len(t))
	copy(out, t)
	return out
}
