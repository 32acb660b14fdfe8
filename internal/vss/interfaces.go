package vss

// RevisionSource supplies the sorted revision history of a VSS database together with
// the destroyed/existing lookups used when destroyed items are excluded.
type RevisionSource interface {
	// SortedRevisions returns every revision bucketed and ordered by timestamp.
	SortedRevisions() *SortedRevisions
	// IsDestroyed reports whether the physical name is known to have been destroyed.
	IsDestroyed(physicalName string) bool
	// ItemExists reports whether the physical name still exists in the database.
	ItemExists(physicalName string) bool
}

// Compile-time interface conformance checks.
var (
	_ RevisionSource = (*DumpSource)(nil)
	_ RevisionSource = (*MockSource)(nil)
)
