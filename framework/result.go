package framework

import (
	"strings"
)

// TestID identifies a test or subtest by the path of names leading to it.
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// TestResult is the outcome of a single test.
type TestResult struct {
	TestID TestID
	Errors []error
}

// Results is the accumulated outcome of a whole test run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// OK returns true if no test failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}
