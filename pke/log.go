package pke

import (
	"fmt"
	"os"
)

// Debug logging helpers
var debugDecode = os.Getenv("MCELIECE_DEBUG") != ""

func logDecode(format string, args ...interface{}) {
	if debugDecode {
		fmt.Fprintf(os.Stderr, "[mceliece] "+format+"\n", args...)
	}
}
