package resttest

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// TestingT is the subset of testing.T that the assertion helpers need. It is
// satisfied by *testing.T and by the harness's own test context (apitests.T), so
// the same scenario logic can run inside the Go test runner or inside the
// standalone harness.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// AssertionFunc makes additional assertions on a response beyond the declarative
// expectations of a scenario.
type AssertionFunc func(t TestingT, resp Response)

// Scenario describes a single test scenario for a REST endpoint: the request
// components and the expected response components.
//
// All fields are optional. Only the expectations that are set are checked, and
// request components that are nil are simply omitted from the request.
type Scenario struct {
	// Description names the scenario; it is used as the subtest name.
	Description string

	// PathParameters are substituted into {name} placeholders in the path template.
	PathParameters map[string]interface{}

	// QueryParameters become the query string. A slice value produces one
	// key=value pair per element.
	QueryParameters map[string]interface{}

	// RequestBody is the request body. A []byte or string is sent verbatim; any
	// other non-nil value is marshaled to JSON and the Content-Type header
	// defaults to application/json.
	RequestBody interface{}

	// RequestHeaders are set on the request after any defaults.
	RequestHeaders map[string]string

	// ExpectedStatus, if defined, is compared against the response status code.
	// An undefined value (the zero OptionalInt) means the status is not checked.
	ExpectedStatus ldvalue.OptionalInt

	// ExpectedBodyType, if non-nil, validates the shape of the response body.
	// See BodyAsType and BodyMatchingSchema.
	ExpectedBodyType BodyValidator

	// ExpectedBody, if non-nil, is compared against the response body. A []byte
	// is compared byte-for-byte; a string is parsed as a JSON document and
	// compared structurally; any other value is marshaled to JSON and compared
	// structurally.
	ExpectedBody interface{}

	// Assertions, if non-nil, replaces the default assertions that would
	// otherwise run after the declarative checks.
	Assertions AssertionFunc
}

// DisplayName returns the scenario's description, or a positional placeholder name
// if it has none. The index is zero-based.
func (s Scenario) DisplayName(index int) string {
	if s.Description != "" {
		return s.Description
	}
	return fmt.Sprintf("scenario %d", index+1)
}

// String returns a multi-line description of the scenario listing only the fields
// that are set. It is meant for debug output when a scenario fails.
func (s Scenario) String() string {
	lines := []string{"Scenario:"}
	addLine := func(name string, value interface{}) {
		lines = append(lines, fmt.Sprintf("\t%s=%v", name, value))
	}
	if s.Description != "" {
		addLine("description", s.Description)
	}
	if s.PathParameters != nil {
		addLine("pathParameters", s.PathParameters)
	}
	if s.QueryParameters != nil {
		addLine("queryParameters", s.QueryParameters)
	}
	if s.RequestBody != nil {
		addLine("requestBody", s.RequestBody)
	}
	if s.RequestHeaders != nil {
		addLine("requestHeaders", s.RequestHeaders)
	}
	if s.ExpectedStatus.IsDefined() {
		addLine("expectedStatus", s.ExpectedStatus.IntValue())
	}
	if s.ExpectedBodyType != nil {
		addLine("expectedBodyType", s.ExpectedBodyType)
	}
	if s.ExpectedBody != nil {
		switch body := s.ExpectedBody.(type) {
		case []byte:
			addLine("expectedBody", string(body))
		case json.RawMessage:
			addLine("expectedBody", string(body))
		default:
			addLine("expectedBody", body)
		}
	}
	return strings.Join(lines, "\n")
}
