package m_search_session

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the search_sessions table.
type Data struct {
	SessionID         string             `spanner:"session_id"`
	Destination       string             `spanner:"destination"`
	CheckIn           spanner.NullDate   `spanner:"check_in"`
	CheckOut          spanner.NullDate   `spanner:"check_out"`
	CriteriaJSON      string             `spanner:"criteria_json"`
	FiltersJSON       string             `spanner:"filters_json"`
	SortMode          string             `spanner:"sort_mode"`
	Page              int64              `spanner:"page"`
	SelectedListingID spanner.NullString `spanner:"selected_listing_id"`
	ResultCount       int64              `spanner:"result_count"`
	Demo              bool               `spanner:"demo"`
	Version           int64              `spanner:"version"`
	CreatedAt         time.Time          `spanner:"created_at"`
	UpdatedAt         time.Time          `spanner:"updated_at"`
	ExpiresAt         time.Time          `spanner:"expires_at"`
}
