package report

// The version ledger is append-only: a new edit always appends, never
// rewrites. Both functions operate on value copies and leave their input
// untouched.

// AppendVersion adds a version to the report's history and returns the
// updated copy. A zero Number is assigned max(existing)+1. A supplied
// Number that collides with an existing version is rejected with
// ErrInvalidVersion; a supplied non-colliding Number is accepted as-is so
// externally persisted snapshots can be replayed.
func AppendVersion(r EODReport, v ReportVersion) (EODReport, error) {
	out := r.Clone()
	if v.Number < 0 {
		return EODReport{}, ErrInvalidVersion
	}
	if v.Number == 0 {
		v.Number = nextVersionNumber(out.Versions)
	} else {
		for _, existing := range out.Versions {
			if existing.Number == v.Number {
				return EODReport{}, ErrInvalidVersion
			}
		}
	}
	out.Versions = append(out.Versions, v)
	return out, nil
}

// LatestVersion returns the version with the highest number. Persisted
// records can arrive with versions out of insertion order, so the whole
// slice is scanned rather than trusting the last element. An empty
// history is an invariant violation and surfaces as ErrEmptyReport.
func LatestVersion(r EODReport) (ReportVersion, error) {
	if len(r.Versions) == 0 {
		return ReportVersion{}, ErrEmptyReport
	}
	latest := r.Versions[0]
	for _, v := range r.Versions[1:] {
		if v.Number > latest.Number {
			latest = v
		}
	}
	return latest, nil
}

// LatestVersionNumber is LatestVersion for callers that only need the
// number; 0 for an empty history.
func LatestVersionNumber(r EODReport) int {
	n := 0
	for _, v := range r.Versions {
		if v.Number > n {
			n = v.Number
		}
	}
	return n
}

func nextVersionNumber(versions []ReportVersion) int {
	max := 0
	for _, v := range versions {
		if v.Number > max {
			max = v.Number
		}
	}
	return max + 1
}
