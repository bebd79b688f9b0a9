package domain

// GroupAdmin is the reserved group name for administrator accounts.
// Members of this group are excluded from promotion and from derived
// group listings.
const GroupAdmin = "Admin"

// DefaultGroups returns the built-in group list used when neither an
// explicit registry nor any user-derived groups exist.
func DefaultGroups() []string {
	return []string{
		"Team A", "Team B", "Team C", "Team D", "Team E",
		"Office 1", "Office 2", "Office 3",
		"Department 1", "Department 2", "Department 3",
	}
}

// GroupTransition records one distinct group rename observed during a
// promotion run.
type GroupTransition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PromotionResult summarizes a promotion run.
type PromotionResult struct {
	// Promoted is the number of users whose group advanced one level.
	Promoted int `json:"promoted"`

	// Deleted is the number of users removed because they were already
	// at the ceiling level.
	Deleted int `json:"deleted"`

	// Transitions is the deduplicated list of (from, to) group renames.
	// It carries no per-user detail.
	Transitions []GroupTransition `json:"transitions"`
}
