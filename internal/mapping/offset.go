package mapping

import "github.com/arloliu/statictopic/types"

// RoundBlockUp returns a block boundary safely past offset.
//
// When offset sits in the lower half of its block the next boundary is
// returned, otherwise the one after it, so a record straddling the boundary
// can never be ambiguous.
//
// Parameters:
//   - offset: Current offset
//   - blockSize: Block size, must be positive
//
// Returns:
//   - int64: Chosen block boundary
//   - error: *types.Fault of kind InvalidRequest when blockSize <= 0
//
// Example:
//
//	next, _ := mapping.RoundBlockUp(1010, 1000) // 2000
//	next, _ = mapping.RoundBlockUp(1600, 1000)  // 3000
func RoundBlockUp(offset, blockSize int64) (int64, error) {
	if blockSize <= 0 {
		return 0, types.NewFault(types.FaultInvalidRequest, "block size must be positive").
			WithValues("> 0", blockSize)
	}

	num := offset / blockSize
	left := offset % blockSize
	if left < blockSize/2 {
		return (num + 1) * blockSize, nil
	}

	return (num + 2) * blockSize, nil
}
