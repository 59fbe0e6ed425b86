package trace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// A trace file is a plain sequence of CBOR items, one Event each, with
// timestamps kept as RFC 3339 strings at nanosecond precision.
var (
	encMode = mustEncMode(cbor.EncOptions{Time: cbor.TimeRFC3339Nano})
	decMode = mustDecMode(cbor.DecOptions{})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: invalid CBOR encoder options: %v", err))
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: invalid CBOR decoder options: %v", err))
	}
	return dm
}
