// Package target models the voting platform under test as seen by the
// workload workers: one read-style operation and one vote submission.
// Implementations decide whether those are simulated delays or real
// network calls.
package target

import "context"

// Vote is one synthetic ballot attempt.
type Vote struct {
	ID        string `json:"vote_id"`
	Candidate string `json:"candidate_id"`
	Voter     string `json:"voter_id"`
}

type Target interface {
	// Query performs one read-style operation against the platform.
	Query(ctx context.Context) error
	// SubmitVote performs one vote submission.
	SubmitVote(ctx context.Context, v Vote) error
}
