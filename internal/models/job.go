package models

import "time"

type Job struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	PostedBy    int64  `json:"posted_by"`
}

// JobSummary is a job with the number of applications received so far.
type JobSummary struct {
	Job
	Applications int `json:"applications"`
}

type Application struct {
	ID              int64     `json:"id"`
	JobID           int64     `json:"job_id"`
	ApplicantID     int64     `json:"applicant_id"`
	ApplicantName   string    `json:"applicant_name,omitempty"` // filled by joins
	ApplicationDate time.Time `json:"application_date"`
	CoverLetter     string    `json:"cover_letter,omitempty"`
}
