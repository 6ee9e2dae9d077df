package buffer

// AccessType tags why a frame was touched. The default LRU-K policy ignores
// it, but the parameter is threaded through every operation that records an
// access so a future replacer policy can bias history accounting on it (e.g.
// treat a sequential scan as lower priority than a point lookup).
type AccessType int

const (
	AccessUnknown AccessType = iota
	AccessScan
	AccessLookup
	AccessIndex
)
