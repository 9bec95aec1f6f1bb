// Package records holds the response envelopes shared by every vendor and
// the capture timestamp attached to each normalized record.
package records

import "time"

// List wraps resources that come back in one shot (segments, stores,
// departments).
type List[T any] struct {
	Data []T `json:"data"`
}

// Object wraps resources that are a single record (store info, postal code).
type Object[T any] struct {
	Data T `json:"data"`
}

// Page wraps paginated assortments.
type Page[T any] struct {
	RecordsPerPage int `json:"records_per_page"`
	Items          int `json:"items"`
	Pages          int `json:"pages"`
	Data           []T `json:"data"`
}

// OffsetPage adds the caller-driven window to the pagination header.
type OffsetPage[T any] struct {
	RecordsPerPage int `json:"records_per_page"`
	Items          int `json:"items"`
	Pages          int `json:"pages"`
	Offset         int `json:"offset"`
	Limit          int `json:"limit"`
	Data           []T `json:"data"`
}

// Stamp is the capture moment carried by every scraped record, split the way
// downstream consumers expect it.
type Stamp struct {
	CreatedAt string `json:"created_at"`
	Hour      string `json:"hour"`
}

func NewStamp(now time.Time) Stamp {
	return Stamp{
		CreatedAt: now.Format("2006-01-02"),
		Hour:      now.Format("15:04:05"),
	}
}

func Now() Stamp {
	return NewStamp(time.Now())
}
