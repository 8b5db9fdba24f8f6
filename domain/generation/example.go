package generation

// ExampleRequest is the canned request offered to new users.
func ExampleRequest() Request {
	return Request{
		UserRequest: "Generate a mentorship spreadsheet with learner profile data.",
		RowCount:    12,
		Columns:     []string{"Name", "Country", "Primary Skill", "Level", "Weekly Availability (hrs)"},
		Constraints: "Use fictional data only. Keep names globally diverse.",
	}
}
