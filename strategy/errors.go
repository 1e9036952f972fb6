package strategy

import "github.com/arloliu/statictopic/types"

// ErrNoBrokers indicates that no brokers were provided for allocation.
var ErrNoBrokers = types.ErrNoBrokers
