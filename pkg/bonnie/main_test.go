package bonnie

import (
	"testing"

	"go.uber.org/goleak"
)

// Samples are parsed on an errgroup; no parser goroutine may outlive a call.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
