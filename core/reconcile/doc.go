// Package reconcile matches an inventory of defined objects against the
// licensed object ranges and reports the objects no range covers.
//
// # Data Model
//
//   - ObjectType: closed set of object kinds. Each kind knows whether it needs
//     a license and how it is spelled in reports.
//   - LicenseRange: an inclusive id range granted for one object type.
//   - RangeSet: the ordered, append-only list of ranges. Built-in ranges come
//     first, parsed ranges follow in file order.
//   - InventoryObject: one object taken from the inventory export.
//   - Violation: an inventory object that no range covers.
//
// # Matching
//
// Reconcile keeps objects whose type requires a license and whose id lies in
// the customization band [50000, 99999]. For each of them the range set is
// scanned in order and the first range with the same object type and an
// inclusive bound containing the id counts as coverage. Type comparison is
// exact enum equality; names are resolved case-sensitively by
// ParseObjectType before they ever reach the engine.
//
// # Usage Example
//
//	ranges := reconcile.NewRangeSet(license.DefaultRanges()...)
//	result := reconcile.ReconcileWithSummary(ranges, inventory.Objects)
//	for _, v := range result.Violations {
//	    fmt.Println(v.ID, v.ObjectType)
//	}
package reconcile
