package reconcile

// RangeSet is the ordered list of license ranges. Order matters: matching
// stops at the first range that covers an object. A nil RangeSet is empty.
type RangeSet struct {
	ranges []LicenseRange
}

// NewRangeSet creates a range set seeded with the given ranges.
func NewRangeSet(seed ...LicenseRange) *RangeSet {
	rs := &RangeSet{ranges: make([]LicenseRange, 0, len(seed))}
	rs.ranges = append(rs.ranges, seed...)
	return rs
}

// Add appends ranges after the existing ones.
func (rs *RangeSet) Add(ranges ...LicenseRange) {
	rs.ranges = append(rs.ranges, ranges...)
}

// Len returns the number of ranges.
func (rs *RangeSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.ranges)
}

// Ranges returns a copy of the ranges in stored order.
func (rs *RangeSet) Ranges() []LicenseRange {
	if rs == nil {
		return []LicenseRange{}
	}
	out := make([]LicenseRange, len(rs.ranges))
	copy(out, rs.ranges)
	return out
}

// Match returns the index of the first range covering the object, or -1.
func (rs *RangeSet) Match(objectType ObjectType, id int64) int {
	if rs == nil {
		return -1
	}
	for i, r := range rs.ranges {
		if r.Contains(objectType, id) {
			return i
		}
	}
	return -1
}

// Covers reports whether any range covers the object.
func (rs *RangeSet) Covers(objectType ObjectType, id int64) bool {
	return rs.Match(objectType, id) >= 0
}

// Reconcile returns the inventory objects that need a license but are not
// covered by any range, in inventory order.
func Reconcile(ranges *RangeSet, objects []InventoryObject) []Violation {
	return ReconcileWithSummary(ranges, objects).Violations
}

// ReconcileWithSummary performs the same matching as Reconcile and also
// counts how many objects were filtered out at each step.
func ReconcileWithSummary(ranges *RangeSet, objects []InventoryObject) Result {
	summary := Summary{
		Ranges:       ranges.Len(),
		TotalObjects: len(objects),
	}
	violations := make([]Violation, 0)

	for _, obj := range objects {
		if !obj.ObjectType.RequiresLicense() {
			continue
		}
		summary.Licensed++

		// Ids outside the band belong to the platform
		if !CustomizationBand.Contains(obj.ID) {
			continue
		}
		summary.Checked++

		if ranges.Covers(obj.ObjectType, obj.ID) {
			summary.Covered++
			continue
		}
		violations = append(violations, Violation(obj))
	}

	summary.Violations = len(violations)

	return Result{
		Violations: violations,
		Summary:    summary,
	}
}
