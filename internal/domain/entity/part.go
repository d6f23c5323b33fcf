package entity

// PartRevision is one row of public.parts: a physical part number that belongs
// to a part-name family at a specific revision.
type PartRevision struct {
	PartID   int64
	PartName string
	PartRev  int64
}

// RevisionFamily groups the active revisions sharing one part name. The latest
// revision is always derived from the revisions at hand; a stored "is latest"
// flag is never trusted between runs.
type RevisionFamily struct {
	Name      string
	Revisions []PartRevision
}

// Latest returns the revision with the highest part_rev. On a tie the
// later-listed revision wins. The family must not be empty.
func (f RevisionFamily) Latest() PartRevision {
	latest := f.Revisions[0]
	for _, r := range f.Revisions[1:] {
		if r.PartRev >= latest.PartRev {
			latest = r
		}
	}
	return latest
}

// Older returns every revision except the latest one.
func (f RevisionFamily) Older() []PartRevision {
	latest := f.Latest()
	older := make([]PartRevision, 0, len(f.Revisions)-1)
	for _, r := range f.Revisions {
		if r.PartID != latest.PartID {
			older = append(older, r)
		}
	}
	return older
}

// PartIDs returns the part ids of every revision in the family.
func (f RevisionFamily) PartIDs() []int64 {
	ids := make([]int64, 0, len(f.Revisions))
	for _, r := range f.Revisions {
		ids = append(ids, r.PartID)
	}
	return ids
}
