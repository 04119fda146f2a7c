package entity

// ReviewOutcome records one rated card within a session. Outcomes are
// immutable once appended to the session log; Persisted is false when the
// card store rejected the scheduling update and the outcome awaits a retry.
type ReviewOutcome struct {
	ItemID                 string
	Rating                 Rating
	PromptShown            string
	AnswerShown            string
	Order                  int
	ScheduledIntervalAfter float64
	Persisted              bool
}

// SessionSummary is the aggregated view over a session's outcome log.
type SessionSummary struct {
	Reviewed int
	Accuracy float64
	ByRating map[Rating]int
	Outcomes []ReviewOutcome
}
