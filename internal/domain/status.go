package domain

// StatusSnapshot captures the bid status markers read off a project's
// detail page. Markers are read fresh on every pass and never cached:
// the remote page is the only source of truth and can change between
// runs.
type StatusSnapshot struct {
	// AlreadyBid is true when the page shows the already-bid notice.
	AlreadyBid bool
	// NoMoreBids is true when the page shows the bidding-closed notice.
	NoMoreBids bool
	// TooManyBids is true when the page shows the rate-limited notice.
	TooManyBids bool
}

// CanBid reports whether none of the terminal markers is present.
func (s StatusSnapshot) CanBid() bool {
	return !s.AlreadyBid && !s.NoMoreBids && !s.TooManyBids
}
