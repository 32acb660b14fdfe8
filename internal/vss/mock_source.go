package vss

// MockSource is a test double for DumpSource.
// It allows tests to provide revisions without a dump file.
type MockSource struct {
	Revisions *SortedRevisions
	Destroyed map[string]bool
	Existing  map[string]bool
}

// NewMockSource creates a MockSource holding revs in the given order.
func NewMockSource(revs ...Revision) *MockSource {
	sorted := NewSortedRevisions()
	for _, r := range revs {
		sorted.Add(r)
	}
	return &MockSource{
		Revisions: sorted,
		Destroyed: map[string]bool{},
		Existing:  map[string]bool{},
	}
}

// SortedRevisions returns the predefined revisions.
func (m *MockSource) SortedRevisions() *SortedRevisions {
	return m.Revisions
}

// IsDestroyed returns the predefined destroyed flag.
func (m *MockSource) IsDestroyed(physicalName string) bool {
	return m.Destroyed[physicalName]
}

// ItemExists returns the predefined existence flag.
func (m *MockSource) ItemExists(physicalName string) bool {
	return m.Existing[physicalName]
}
