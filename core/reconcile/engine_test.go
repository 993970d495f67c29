package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, ot ObjectType, from, to int64) LicenseRange {
	t.Helper()
	r, err := NewLicenseRange(ot, from, to, "X")
	require.NoError(t, err)
	return r
}

func seedRanges(t *testing.T) *RangeSet {
	return NewRangeSet(
		mustRange(t, TableData, 50000, 50009),
		mustRange(t, Page, 50000, 50099),
		mustRange(t, Report, 50000, 50099),
		mustRange(t, Codeunit, 50000, 50099),
		mustRange(t, XMLport, 50000, 50099),
		mustRange(t, Query, 50000, 50099),
	)
}

func TestRangeSet_Order(t *testing.T) {
	rs := NewRangeSet(mustRange(t, Page, 50000, 50099))
	rs.Add(mustRange(t, Page, 50050, 50200), mustRange(t, Codeunit, 70000, 70010))

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, 0, rs.Match(Page, 50060), "first match wins on overlap")
	assert.Equal(t, 1, rs.Match(Page, 50150))
	assert.Equal(t, 2, rs.Match(Codeunit, 70000))
	assert.Equal(t, -1, rs.Match(Codeunit, 70011))

	ranges := rs.Ranges()
	ranges[0].From = 1
	assert.Equal(t, int64(50000), rs.Ranges()[0].From, "Ranges returns a copy")
}

func TestReconcile_Scenarios(t *testing.T) {
	t.Run("Covered page", func(t *testing.T) {
		objects := []InventoryObject{{ObjectType: Page, ID: 50050, Name: "Customer List"}}
		assert.Empty(t, Reconcile(seedRanges(t), objects))
	})

	t.Run("Uncovered codeunit", func(t *testing.T) {
		objects := []InventoryObject{{ObjectType: Codeunit, ID: 60000, Name: "Import Engine"}}
		violations := Reconcile(seedRanges(t), objects)
		require.Len(t, violations, 1)
		assert.Equal(t, Violation{ObjectType: Codeunit, ID: 60000, Name: "Import Engine"}, violations[0])
	})

	t.Run("Table never needs a license", func(t *testing.T) {
		objects := []InventoryObject{{ObjectType: Table, ID: 50005, Name: "Staging Table"}}
		result := ReconcileWithSummary(NewRangeSet(), objects)
		assert.Empty(t, result.Violations)
		assert.Equal(t, 0, result.Summary.Licensed)
		assert.Equal(t, 0, result.Summary.Checked)
	})
}

func TestReconcile_UnlicensedTypesNeverViolate(t *testing.T) {
	var objects []InventoryObject
	for _, ot := range ObjectTypes() {
		if ot.RequiresLicense() {
			continue
		}
		for _, id := range []int64{1, 49999, 50000, 75000, 99999, 100000} {
			objects = append(objects, InventoryObject{ObjectType: ot, ID: id, Name: ot.String()})
		}
	}

	assert.Empty(t, Reconcile(NewRangeSet(), objects))
}

func TestReconcile_OutsideBandNeverViolates(t *testing.T) {
	objects := []InventoryObject{
		{ObjectType: Codeunit, ID: 80, Name: "Sales-Post"},
		{ObjectType: Page, ID: 49999, Name: "Base Page"},
		{ObjectType: Report, ID: 100000, Name: "Partner Report"},
		{ObjectType: Query, ID: -1, Name: "Broken"},
	}

	result := ReconcileWithSummary(NewRangeSet(), objects)
	assert.Empty(t, result.Violations)
	assert.Equal(t, 4, result.Summary.Licensed)
	assert.Equal(t, 0, result.Summary.Checked)
}

func TestReconcile_CoverageLaw(t *testing.T) {
	rs := seedRanges(t)
	rs.Add(mustRange(t, Codeunit, 70000, 70049), mustRange(t, TableData, 50010, 50019))

	var objects []InventoryObject
	for _, ot := range []ObjectType{TableData, Page, Codeunit, Report, XMLport, Query} {
		for _, id := range []int64{50000, 50009, 50010, 50019, 50020, 50099, 50100, 69999, 70000, 70049, 70050} {
			objects = append(objects, InventoryObject{ObjectType: ot, ID: id})
		}
	}

	violations := Reconcile(rs, objects)
	flagged := make(map[InventoryObject]bool, len(violations))
	for _, v := range violations {
		flagged[InventoryObject(v)] = true
	}

	for _, obj := range objects {
		covered := false
		for _, r := range rs.Ranges() {
			if r.ObjectType == obj.ObjectType && r.From <= obj.ID && obj.ID <= r.To {
				covered = true
				break
			}
		}
		assert.Equal(t, !covered, flagged[obj], "%s %d", obj.ObjectType, obj.ID)
	}
}

func TestReconcile_PreservesOrderAndIsIdempotent(t *testing.T) {
	objects := []InventoryObject{
		{ObjectType: Report, ID: 60002, Name: "c"},
		{ObjectType: Page, ID: 50001, Name: "covered"},
		{ObjectType: Codeunit, ID: 60000, Name: "a"},
		{ObjectType: Table, ID: 60000, Name: "table"},
		{ObjectType: Page, ID: 60001, Name: "b"},
	}
	rs := seedRanges(t)

	first := Reconcile(rs, objects)
	second := Reconcile(rs, objects)

	require.Len(t, first, 3)
	assert.Equal(t, "c", first[0].Name)
	assert.Equal(t, "a", first[1].Name)
	assert.Equal(t, "b", first[2].Name)
	assert.Equal(t, first, second)
}

func TestReconcileWithSummary_Counts(t *testing.T) {
	objects := []InventoryObject{
		{ObjectType: Table, ID: 50000},
		{ObjectType: Page, ID: 18},
		{ObjectType: Page, ID: 50000},
		{ObjectType: Page, ID: 60000},
	}

	result := ReconcileWithSummary(seedRanges(t), objects)
	assert.Equal(t, Summary{
		Ranges:       6,
		TotalObjects: 4,
		Licensed:     3,
		Checked:      2,
		Covered:      1,
		Violations:   1,
	}, result.Summary)
}

func TestReconcile_EmptyInventory(t *testing.T) {
	violations := Reconcile(seedRanges(t), nil)
	assert.NotNil(t, violations)
	assert.Empty(t, violations)
}

func TestReconcile_NilRangeSet(t *testing.T) {
	var rs *RangeSet
	objects := []InventoryObject{
		{ObjectType: Codeunit, ID: 60000, Name: "Import Engine"},
		{ObjectType: Table, ID: 50000, Name: "Staging"},
	}

	result := ReconcileWithSummary(rs, objects)
	assert.Equal(t, 0, result.Summary.Ranges)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, int64(60000), result.Violations[0].ID)

	assert.Equal(t, 0, rs.Len())
	assert.Empty(t, rs.Ranges())
	assert.False(t, rs.Covers(Page, 50000))
}
