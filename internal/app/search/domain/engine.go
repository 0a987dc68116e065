package domain

// View is the paginated projection of the filtered and sorted pool.
type View struct {
	Listings     []Listing
	TotalMatched int
	HasMore      bool
	Page         int
	PageSize     int
}

// Engine filters, sorts and paginates the pool of one search.
// It performs no I/O and is not safe for concurrent use.
type Engine struct {
	policy   FilterPolicy
	pool     []Listing
	defaults FilterCriteria
	filters  FilterCriteria
	sort     SortMode
	matched  []Listing
	page     int
}

// NewEngine creates an empty engine with the given policy.
func NewEngine(policy FilterPolicy) *Engine {
	e := &Engine{policy: policy.normalized()}
	e.Load(nil)
	return e
}

// Load replaces the pool and resets filters, sort and page.
func (e *Engine) Load(listings []Listing) {
	e.pool = append([]Listing(nil), listings...)
	e.defaults = e.defaultFilters()
	e.filters = e.defaults.Copy()
	e.sort = SortRecommended
	e.page = 1
	e.recompute()
}

// SetFilter merges the patch into the active filters and returns to page 1.
func (e *Engine) SetFilter(patch FilterPatch) {
	e.filters = e.filters.Merge(patch)
	e.page = 1
	e.recompute()
}

// ResetFilters restores the load-time defaults and recommended order.
func (e *Engine) ResetFilters() {
	e.filters = e.defaults.Copy()
	e.sort = SortRecommended
	e.page = 1
	e.recompute()
}

// SetSort replaces the sort mode and returns to page 1. Unknown modes are ignored.
func (e *Engine) SetSort(mode SortMode) {
	if !mode.IsValid() {
		return
	}
	e.sort = mode
	e.page = 1
	e.recompute()
}

// NextPage reveals one more page and returns only the listings on it.
// On the last page, or with nothing matched, it returns an empty slice and
// leaves the cursor alone.
func (e *Engine) NextPage() []Listing {
	shown := e.shownCount()
	if shown >= len(e.matched) {
		return []Listing{}
	}
	e.page++
	return cloneListings(e.matched[shown:e.shownCount()])
}

// CurrentView returns the listings up to the current page.
func (e *Engine) CurrentView() View {
	shown := e.shownCount()
	return View{
		Listings:     cloneListings(e.matched[:shown]),
		TotalMatched: len(e.matched),
		HasMore:      e.page*e.policy.PageSize < len(e.matched),
		Page:         e.page,
		PageSize:     e.policy.PageSize,
	}
}

// Restore reapplies persisted state on top of the loaded pool.
// The page is clamped to the pages that exist.
func (e *Engine) Restore(filters FilterCriteria, mode SortMode, page int) {
	e.filters = filters.Copy()
	if mode.IsValid() {
		e.sort = mode
	}
	e.recompute()
	if last := e.lastPage(); page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	e.page = page
}

// Filters returns a copy of the active filters.
func (e *Engine) Filters() FilterCriteria {
	return e.filters.Copy()
}

// DefaultFilters returns the filters computed on load.
func (e *Engine) DefaultFilters() FilterCriteria {
	return e.defaults.Copy()
}

func (e *Engine) Sort() SortMode {
	return e.sort
}

func (e *Engine) Page() int {
	return e.page
}

// PoolSize returns the number of listings loaded.
func (e *Engine) PoolSize() int {
	return len(e.pool)
}

// Listing finds a listing in the pool by id.
func (e *Engine) Listing(id string) (Listing, bool) {
	for _, l := range e.pool {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

func (e *Engine) defaultFilters() FilterCriteria {
	maxPrice := ZeroMoney()
	for _, l := range e.pool {
		if l.Price().GreaterThan(maxPrice) {
			maxPrice = l.Price()
		}
	}
	return FilterCriteria{
		MaxPrice:       maxPrice.CeilToMultiple(e.policy.PriceStep),
		Stars:          e.policy.DefaultStars,
		MinGuestRating: NoMinGuestRating,
	}
}

func (e *Engine) recompute() {
	matched := make([]Listing, 0, len(e.pool))
	for _, l := range e.pool {
		if e.filters.Matches(l) {
			matched = append(matched, l)
		}
	}
	e.sort.Apply(matched)
	e.matched = matched
}

func (e *Engine) shownCount() int {
	n := e.page * e.policy.PageSize
	if n > len(e.matched) {
		return len(e.matched)
	}
	return n
}

func cloneListings(listings []Listing) []Listing {
	out := make([]Listing, len(listings))
	copy(out, listings)
	return out
}

func (e *Engine) lastPage() int {
	if len(e.matched) == 0 {
		return 1
	}
	return (len(e.matched) + e.policy.PageSize - 1) / e.policy.PageSize
}
