package m_search_session

// Field name constants for the search_sessions table.
const (
	TableName = "search_sessions"

	SessionID         = "session_id"
	Destination       = "destination"
	CheckIn           = "check_in"
	CheckOut          = "check_out"
	CriteriaJSON      = "criteria_json"
	FiltersJSON       = "filters_json"
	SortMode          = "sort_mode"
	Page              = "page"
	SelectedListingID = "selected_listing_id"
	ResultCount       = "result_count"
	Demo              = "demo"
	Version           = "version"
	CreatedAt         = "created_at"
	UpdatedAt         = "updated_at"
	ExpiresAt         = "expires_at"
)

// AllColumns lists every column in Data order.
var AllColumns = []string{
	SessionID,
	Destination,
	CheckIn,
	CheckOut,
	CriteriaJSON,
	FiltersJSON,
	SortMode,
	Page,
	SelectedListingID,
	ResultCount,
	Demo,
	Version,
	CreatedAt,
	UpdatedAt,
	ExpiresAt,
}
