package model

// ChangedFields compares an original and an edited ticket snapshot and
// returns the JSON names of every field whose value differs.  Scalar fields
// compare by value; list-valued fields compare structurally.  The edit form
// uses the result to drive its "unsaved changes" indicator and to skip
// update calls that would be no-ops.
func ChangedFields(orig, edited Ticket) []string {
	changed := []string{}
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("issue_type", orig.IssueType != edited.IssueType)
	add("current_condition", orig.CurrentCondition != edited.CurrentCondition)
	add("priority", orig.Priority != edited.Priority)
	add("status_badge", orig.StatusBadge != edited.StatusBadge)
	add("selected_event", orig.SelectedEvent != edited.SelectedEvent)
	add("client_note", orig.ClientNote != edited.ClientNote)
	add("assignee", orig.Assignee != edited.Assignee)
	add("current_condition_by_admin", orig.CurrentConditionByAdmin != edited.CurrentConditionByAdmin)
	add("problem_solved_at", orig.ProblemSolvedAt != edited.ProblemSolvedAt)
	add("action_taken", orig.ActionTaken != edited.ActionTaken)
	add("time_taken_to_solve", orig.TimeTakenToSolve != edited.TimeTakenToSolve)
	add("related_tickets", !stringSlicesEqual(orig.RelatedTickets, edited.RelatedTickets))
	add("attachments", !stringSlicesEqual(orig.Attachments, edited.Attachments))
	add("comments", !commentsEqual(orig.Comments, edited.Comments))
	add("communication_channel", orig.CommunicationChannel != edited.CommunicationChannel)
	return changed
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func commentsEqual(a, b []Comment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Author != b[i].Author || a[i].Content != b[i].Content || !a[i].Timestamp.Equal(b[i].Timestamp) {
			return false
		}
	}
	return true
}
