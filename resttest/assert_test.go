package resttest

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/restkit/rest-scenario-tests/internal/exampleapp"
)

// mockT records assertion failures so that tests can verify that a scenario check
// failed, without failing the real test.
type mockT struct {
	failures  []string
	failedNow bool
}

func (m *mockT) Errorf(format string, args ...interface{}) {
	m.failures = append(m.failures, fmt.Sprintf(format, args...))
}

func (m *mockT) FailNow() {
	m.failedNow = true
	panic(m)
}

// runWithMockT runs the action, absorbing the panic that mockT.FailNow throws.
func runWithMockT(action func(t *mockT)) *mockT {
	m := &mockT{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				if mt, ok := r.(*mockT); !ok || mt != m {
					panic(r)
				}
			}
		}()
		action(m)
	}()
	return m
}

func expectStatus(status int) ldvalue.OptionalInt { return ldvalue.NewOptionalInt(status) }

func TestAssertResponseStatusCheck(t *testing.T) {
	resp := Response{StatusCode: 200, Body: []byte(`{}`)}

	m := runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedStatus: expectStatus(200)}, resp)
	})
	assert.Empty(t, m.failures)

	m = runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedStatus: expectStatus(404)}, resp)
	})
	assert.NotEmpty(t, m.failures)
}

func TestAssertResponseIgnoresStatusWhenNotExpected(t *testing.T) {
	m := runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{}, Response{StatusCode: 500})
	})
	assert.Empty(t, m.failures)
}

func TestAssertResponseExactBodyCheck(t *testing.T) {
	resp := Response{StatusCode: 200, Body: []byte("raw bytes")}

	m := runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedBody: []byte("raw bytes")}, resp)
	})
	assert.Empty(t, m.failures)

	m = runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedBody: []byte("other bytes")}, resp)
	})
	assert.NotEmpty(t, m.failures)
}

func TestAssertResponseStructuralBodyCheck(t *testing.T) {
	resp := Response{StatusCode: 200, Body: []byte(`{"id": "d1", "title": "dept"}`)}

	// a string expectation is parsed as JSON, so field order and spacing don't matter
	m := runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedBody: `{"title":"dept","id":"d1"}`}, resp)
	})
	assert.Empty(t, m.failures)

	// any other value is marshaled to JSON first
	m = runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{
			ExpectedBody: map[string]interface{}{"id": "d1", "title": "dept"},
		}, resp)
	})
	assert.Empty(t, m.failures)

	m = runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedBody: `{"id":"d1","title":"wrong"}`}, resp)
	})
	assert.NotEmpty(t, m.failures)
}

func TestAssertResponseBodyTypeCheck(t *testing.T) {
	resp := Response{StatusCode: 200, Body: []byte(`{"id": "d1", "title": "dept"}`)}

	m := runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedBodyType: BodyAsType(departmentOut{})}, resp)
	})
	assert.Empty(t, m.failures)

	m = runWithMockT(func(t *mockT) {
		AssertResponse(t, Scenario{ExpectedBodyType: BodyAsType([]departmentOut{})}, resp)
	})
	require.Len(t, m.failures, 1)
	assert.Contains(t, m.failures[0], "failed validation")
}

func TestAssertResponseScenarioAssertionsReplaceDefaults(t *testing.T) {
	resp := Response{StatusCode: 200, Header: http.Header{"X-Custom": []string{"yes"}}}

	defaultRan := false
	defaultAssertion := func(t TestingT, resp Response) { defaultRan = true }

	scenarioRan := false
	scenario := Scenario{
		Assertions: func(t TestingT, resp Response) {
			scenarioRan = true
			assert.Equal(t, "yes", resp.Header.Get("X-Custom"))
		},
	}

	m := runWithMockT(func(t *mockT) { AssertResponse(t, scenario, resp, defaultAssertion) })
	assert.Empty(t, m.failures)
	assert.True(t, scenarioRan)
	assert.False(t, defaultRan)

	defaultRan = false
	m = runWithMockT(func(t *mockT) { AssertResponse(t, Scenario{}, resp, defaultAssertion) })
	assert.Empty(t, m.failures)
	assert.True(t, defaultRan)
}

func TestAssertScenarioSucceedsAgainstHandler(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(departmentOut{ID: "d1", Title: "dept"}, nil)
	target := NewHandlerTarget(handler)

	AssertScenarioSucceeds(t, target, "GET", "/anything", Scenario{
		ExpectedStatus:   expectStatus(200),
		ExpectedBodyType: BodyAsType(departmentOut{}),
		ExpectedBody:     `{"id": "d1", "title": "dept"}`,
	})
}

func TestAssertScenarioSucceedsSendsScenarioRequest(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	target := NewHandlerTarget(handler)

	AssertScenarioSucceeds(t, target, "DELETE", "/api/departments/{id}", Scenario{
		PathParameters:  map[string]interface{}{"id": "d2"},
		QueryParameters: map[string]interface{}{"force": true},
		RequestHeaders:  map[string]string{"Authorization": "Bearer 123"},
		ExpectedStatus:  expectStatus(204),
	})

	require.Len(t, requests, 1)
	info := <-requests
	assert.Equal(t, "DELETE", info.Request.Method)
	assert.Equal(t, "/api/departments/d2", info.Request.URL.Path)
	assert.Equal(t, "force=true", info.Request.URL.RawQuery)
	assert.Equal(t, "Bearer 123", info.Request.Header.Get("Authorization"))
}

func TestAssertScenarioSucceedsReportsDispatchFailure(t *testing.T) {
	target := &RemoteTarget{BaseURL: "http://localhost:1/nothing-listens-here",
		Client: &http.Client{Timeout: time.Millisecond * 200}}

	m := runWithMockT(func(t *mockT) {
		AssertScenarioSucceeds(t, target, "GET", "/x", Scenario{})
	})
	assert.True(t, m.failedNow)
}

func TestAssertScenariosSucceedAgainstExampleApp(t *testing.T) {
	app := exampleapp.New(
		exampleapp.Department{ID: "d1", Title: "department-1"},
		exampleapp.Department{ID: "d2", Title: "department-2"},
	)
	target := NewHandlerTarget(app.Handler())
	target.ResetFunc = app.Reset

	authorized := map[string]string{"Authorization": "Bearer " + exampleapp.AuthToken}

	AssertScenariosSucceed(t, target, "GET", "/api/departments/{id}", []Scenario{
		{
			Description:    "existing department",
			PathParameters: map[string]interface{}{"id": "d1"},
			RequestHeaders: authorized,
			ExpectedStatus: expectStatus(200),
			ExpectedBody:   `{"id": "d1", "title": "department-1"}`,
		},
		{
			Description:    "unknown department",
			PathParameters: map[string]interface{}{"id": "nope"},
			RequestHeaders: authorized,
			ExpectedStatus: expectStatus(404),
		},
		{
			Description:    "wrong token",
			PathParameters: map[string]interface{}{"id": "d1"},
			RequestHeaders: map[string]string{"Authorization": "Bearer 456"},
			ExpectedStatus: expectStatus(403),
		},
		{
			Description:    "no credentials",
			PathParameters: map[string]interface{}{"id": "d1"},
			ExpectedStatus: expectStatus(401),
		},
	})
}

func TestAssertScenariosSucceedResetsTargetBetweenScenarios(t *testing.T) {
	app := exampleapp.New(exampleapp.Department{ID: "d1", Title: "department-1"})
	target := NewHandlerTarget(app.Handler())
	target.ResetFunc = app.Reset

	authorized := map[string]string{"Authorization": "Bearer " + exampleapp.AuthToken}

	// both scenarios delete the same department; the second only works because the
	// state was reset after the first
	scenario := Scenario{
		PathParameters: map[string]interface{}{"id": "d1"},
		RequestHeaders: authorized,
		ExpectedStatus: expectStatus(204),
	}
	AssertScenariosSucceed(t, target, "DELETE", "/api/departments/{id}",
		[]Scenario{scenario, scenario})

	assert.Equal(t, 1, app.Count(), "state should have been reset after the last scenario")
}

func TestScenarioDisplayName(t *testing.T) {
	assert.Equal(t, "my scenario", Scenario{Description: "my scenario"}.DisplayName(0))
	assert.Equal(t, "scenario 3", Scenario{}.DisplayName(2))
}

func TestScenarioStringListsOnlySetFields(t *testing.T) {
	s := Scenario{
		Description:    "Test scenario",
		PathParameters: map[string]interface{}{"id": 1},
		ExpectedStatus: expectStatus(200),
		ExpectedBody:   `{"id": 1}`,
	}
	str := s.String()
	assert.Contains(t, str, "description=Test scenario")
	assert.Contains(t, str, "pathParameters=map[id:1]")
	assert.Contains(t, str, "expectedStatus=200")
	assert.Contains(t, str, `expectedBody={"id": 1}`)
	assert.NotContains(t, str, "queryParameters")
	assert.NotContains(t, str, "requestHeaders")
}
