//go:build integration

package mcenv_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/mcenv/mcenv/tests/internal/testutil"
)

// sharedFixture stands in for every remote endpoint: the version manifest,
// jar downloads, the runtime discovery API and the paste service. It is
// created once and shared by all tests in this package; each test gets its
// own manager and root directory.
var sharedFixture *testutil.Fixture

func TestMain(m *testing.M) {
	testutil.SetupTestLogging()

	f, err := testutil.NewFixture()
	if err != nil {
		fmt.Fprintf(os.Stderr, "starting fixture: %v\n", err)
		os.Exit(1)
	}
	sharedFixture = f

	code := m.Run()
	f.Close()
	os.Exit(code)
}
