package store

// MembershipMode names the two roster-membership policies. The
// asymmetry is deliberate: historical reads tolerate ids that no longer
// resolve, new writes reject ids outside the roster so programming
// errors surface at the boundary instead of corrupting the ledger.
type MembershipMode int

const (
	// MembershipTolerant silently excludes ids that do not resolve.
	// Used when reading rosters and aggregating historical records.
	MembershipTolerant MembershipMode = iota
	// MembershipStrict rejects any id outside the current roster.
	// Used when appending new attendance records.
	MembershipStrict
)

// checkSubset returns the first key of presence that is not a member of
// roster, or "" when presence's keys are a subset.
func checkSubset(presence map[string]bool, roster []string) string {
	members := make(map[string]struct{}, len(roster))
	for _, id := range roster {
		members[id] = struct{}{}
	}
	for id := range presence {
		if _, ok := members[id]; !ok {
			return id
		}
	}
	return ""
}
