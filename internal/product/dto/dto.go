package dto

import "time"

type EventFilters struct {
	StoreID      int64
	ProductID    int64
	SubmissionID string
	Status       string
	Since        *time.Time
	Page         int
	PageSize     int
}
