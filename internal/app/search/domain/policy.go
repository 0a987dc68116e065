package domain

// FilterPolicy holds the defaults an Engine applies on load.
type FilterPolicy struct {
	PageSize     int
	DefaultStars StarSet
	PriceStep    int64
}

// DefaultFilterPolicy returns the results-page defaults: 12 per page,
// stars {3,4,5} and max price rounded up to the next thousand.
func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{
		PageSize:     12,
		DefaultStars: NewStarSet(3, 4, 5),
		PriceStep:    1000,
	}
}

// normalized fills zero values with the defaults.
func (p FilterPolicy) normalized() FilterPolicy {
	def := DefaultFilterPolicy()
	if p.PageSize <= 0 {
		p.PageSize = def.PageSize
	}
	if p.PriceStep <= 0 {
		p.PriceStep = def.PriceStep
	}
	return p
}
