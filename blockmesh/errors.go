package blockmesh

import "errors"

// Error kinds surfaced by the generator. All are returned at top level,
// wrapped with context; none are recovered internally.
var (
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrInvalidBlockCorners  = errors.New("invalid block corners")
	ErrInvalidGrading       = errors.New("invalid grading")
	ErrInvalidPatch         = errors.New("invalid patch")
	ErrInvalidPartition     = errors.New("invalid partition")
	ErrInconsistentTopology = errors.New("inconsistent topology across ranks")
)
