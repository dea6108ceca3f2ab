package domain

// Submission is the remote endpoint's receipt for a vote submission. The
// upload URL, when present, is the one-time token-bearing link to the
// screenshot upload step.
type Submission struct {
	SubmissionID string `json:"submission_id"`
	UploadURL    string `json:"upload_url,omitempty"`
}
