package apitests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restkit/rest-scenario-tests/framework"
	"github.com/restkit/rest-scenario-tests/internal/exampleapp"
	"github.com/restkit/rest-scenario-tests/resttest"
	"github.com/restkit/rest-scenario-tests/suitefile"
)

const passingSuite = `
name: departments
schemas:
  DepartmentOut:
    type: object
    required: [id, title]
    properties:
      id: {type: string}
      title: {type: string}
endpoints:
  - method: GET
    path: /api/departments/{id}
    scenarios:
      - description: existing department
        pathParameters: {id: d1}
        requestHeaders: {Authorization: Bearer 123}
        expectedStatus: 200
        expectedBodyType: DepartmentOut
        expectedBody: {id: d1, title: department-1}
      - description: unknown department
        pathParameters: {id: nope}
        requestHeaders: {Authorization: Bearer 123}
        expectedStatus: 404
  - method: DELETE
    path: /api/departments/{id}
    scenarios:
      - description: delete once
        pathParameters: {id: d1}
        requestHeaders: {Authorization: Bearer 123}
        expectedStatus: 204
      - description: delete again after reset
        pathParameters: {id: d1}
        requestHeaders: {Authorization: Bearer 123}
        expectedStatus: 204
`

const failingSuite = `
name: failing
endpoints:
  - method: GET
    path: /api/departments/{id}
    scenarios:
      - description: wrong expected status
        pathParameters: {id: d1}
        requestHeaders: {Authorization: Bearer 123}
        expectedStatus: 500
`

func newExampleTarget() resttest.Target {
	app := exampleapp.New(exampleapp.Department{ID: "d1", Title: "department-1"})
	target := resttest.NewHandlerTarget(app.Handler())
	target.ResetFunc = app.Reset
	return target
}

func mustParseSuite(t *testing.T, content string) suitefile.Suite {
	suite, err := suitefile.Parse([]byte(content))
	require.NoError(t, err)
	return suite
}

func TestRunSuitesAllPassing(t *testing.T) {
	results := RunSuites(newExampleTarget(), []suitefile.Suite{mustParseSuite(t, passingSuite)},
		nil, nil)

	assert.True(t, results.OK())
	var names []string
	for _, r := range results.Tests {
		names = append(names, r.TestID.String())
	}
	assert.Contains(t, names, "departments/GET /api/departments/{id}/existing department")
	assert.Contains(t, names, "departments/DELETE /api/departments/{id}/delete again after reset")
}

func TestRunSuitesReportsFailures(t *testing.T) {
	results := RunSuites(newExampleTarget(),
		[]suitefile.Suite{mustParseSuite(t, passingSuite), mustParseSuite(t, failingSuite)},
		nil, nil)

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "failing/GET /api/departments/{id}/wrong expected status",
		results.Failures[0].TestID.String())
	require.NotEmpty(t, results.Failures[0].Errors)
	// the failure message should include the actual response body to help diagnosis
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "department-1")
}

func TestRunSuitesAppliesFilter(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("DELETE"))

	results := RunSuites(newExampleTarget(), []suitefile.Suite{mustParseSuite(t, passingSuite)},
		filters.AsFilter, nil)

	assert.True(t, results.OK())
	for _, r := range results.Tests {
		assert.NotContains(t, r.TestID.String(), "DELETE")
	}
}

func TestRunSuitesCapturesDebugOutput(t *testing.T) {
	var captured framework.CapturedOutput
	logger := finishedLogger(func(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
		if id.String() == "departments/GET /api/departments/{id}/existing department" {
			captured = debugOutput
		}
	})

	RunSuites(newExampleTarget(), []suitefile.Suite{mustParseSuite(t, passingSuite)}, nil, logger)

	require.NotEmpty(t, captured)
	assert.Contains(t, captured[0].Message, "dispatching scenario")
}

type finishedLogger func(id framework.TestID, failed bool, debugOutput framework.CapturedOutput)

func (f finishedLogger) TestStarted(framework.TestID)         {}
func (f finishedLogger) TestError(framework.TestID, error)    {}
func (f finishedLogger) TestSkipped(framework.TestID, string) {}
func (f finishedLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	f(id, failed, debugOutput)
}
