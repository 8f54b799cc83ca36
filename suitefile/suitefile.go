// Package suitefile loads scenario suite definitions from YAML files, for the
// standalone harness. A suite file names a set of endpoints, each with a list of
// scenarios, and may declare JSON schemas that scenarios reference by name to
// validate response body shapes.
package suitefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"

	"github.com/restkit/rest-scenario-tests/resttest"
)

// Suite is one loaded suite file.
type Suite struct {
	Name      string
	Schemas   map[string]*openapi3.Schema
	Endpoints []Endpoint
}

// Endpoint is one HTTP method and path template with its scenarios.
type Endpoint struct {
	Method    string
	Path      string
	Scenarios []resttest.Scenario
}

type suiteFile struct {
	Name      string                 `yaml:"name"`
	Schemas   map[string]interface{} `yaml:"schemas"`
	Endpoints []endpointFile         `yaml:"endpoints"`
}

type endpointFile struct {
	Method    string         `yaml:"method"`
	Path      string         `yaml:"path"`
	Scenarios []scenarioFile `yaml:"scenarios"`
}

type scenarioFile struct {
	Description      string                 `yaml:"description"`
	PathParameters   map[string]interface{} `yaml:"pathParameters"`
	QueryParameters  map[string]interface{} `yaml:"queryParameters"`
	RequestBody      interface{}            `yaml:"requestBody"`
	RequestHeaders   map[string]string      `yaml:"requestHeaders"`
	ExpectedStatus   int                    `yaml:"expectedStatus"`
	ExpectedBodyType string                 `yaml:"expectedBodyType"`
	ExpectedBody     interface{}            `yaml:"expectedBody"`
	ExpectedBodyText string                 `yaml:"expectedBodyText"`
}

// Load reads and parses one suite file.
func Load(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}
	suite, err := Parse(data)
	if err != nil {
		return Suite{}, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}

// LoadAll loads every named suite file.
func LoadAll(paths []string) ([]Suite, error) {
	var suites []Suite
	for _, path := range paths {
		suite, err := Load(path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// Parse parses suite file content. Unknown YAML fields are rejected, so a
// misspelled field name in a suite file is an error rather than a silently
// ignored expectation.
func Parse(data []byte) (Suite, error) {
	var file suiteFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return Suite{}, fmt.Errorf("malformed suite file: %w", err)
	}

	if file.Name == "" {
		return Suite{}, fmt.Errorf("suite file has no name")
	}
	if len(file.Endpoints) == 0 {
		return Suite{}, fmt.Errorf("suite %q defines no endpoints", file.Name)
	}

	suite := Suite{Name: file.Name}

	if len(file.Schemas) > 0 {
		suite.Schemas = make(map[string]*openapi3.Schema, len(file.Schemas))
		for name, raw := range file.Schemas {
			schema, err := compileSchema(raw)
			if err != nil {
				return Suite{}, fmt.Errorf("suite %q: schema %q: %w", file.Name, name, err)
			}
			suite.Schemas[name] = schema
		}
	}

	for i, e := range file.Endpoints {
		endpoint, err := e.toEndpoint(suite.Schemas)
		if err != nil {
			return Suite{}, fmt.Errorf("suite %q: endpoint %d: %w", file.Name, i+1, err)
		}
		suite.Endpoints = append(suite.Endpoints, endpoint)
	}

	return suite, nil
}

// compileSchema converts a decoded YAML schema definition into an OpenAPI schema.
// The YAML value round-trips through JSON because that is the encoding the schema
// type natively unmarshals from.
func compileSchema(raw interface{}) (*openapi3.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot encode schema definition: %w", err)
	}
	var schema openapi3.Schema
	if err := schema.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("invalid schema definition: %w", err)
	}
	return &schema, nil
}

func (e endpointFile) toEndpoint(schemas map[string]*openapi3.Schema) (Endpoint, error) {
	if e.Method == "" {
		return Endpoint{}, fmt.Errorf("endpoint has no method")
	}
	if !strings.HasPrefix(e.Path, "/") {
		return Endpoint{}, fmt.Errorf("endpoint path %q does not start with /", e.Path)
	}
	if len(e.Scenarios) == 0 {
		return Endpoint{}, fmt.Errorf("endpoint %s %s has no scenarios", e.Method, e.Path)
	}

	endpoint := Endpoint{Method: strings.ToUpper(e.Method), Path: e.Path}
	for i, s := range e.Scenarios {
		scenario, err := s.toScenario(schemas)
		if err != nil {
			return Endpoint{}, fmt.Errorf("scenario %q: %w", s.displayName(i), err)
		}
		endpoint.Scenarios = append(endpoint.Scenarios, scenario)
	}
	return endpoint, nil
}

func (s scenarioFile) displayName(index int) string {
	if s.Description != "" {
		return s.Description
	}
	return fmt.Sprintf("scenario %d", index+1)
}

func (s scenarioFile) toScenario(schemas map[string]*openapi3.Schema) (resttest.Scenario, error) {
	scenario := resttest.Scenario{
		Description:     s.Description,
		PathParameters:  s.PathParameters,
		QueryParameters: s.QueryParameters,
		RequestBody:     s.RequestBody,
		RequestHeaders:  s.RequestHeaders,
	}

	if s.ExpectedStatus != 0 {
		scenario.ExpectedStatus = ldvalue.NewOptionalInt(s.ExpectedStatus)
	}

	if s.ExpectedBodyType != "" {
		schema, found := schemas[s.ExpectedBodyType]
		if !found {
			return resttest.Scenario{}, fmt.Errorf("references unknown schema %q", s.ExpectedBodyType)
		}
		scenario.ExpectedBodyType = resttest.BodyMatchingSchema(s.ExpectedBodyType, schema)
	}

	if s.ExpectedBodyText != "" && s.ExpectedBody != nil {
		return resttest.Scenario{}, fmt.Errorf("expectedBody and expectedBodyText cannot both be set")
	}
	if s.ExpectedBodyText != "" {
		scenario.ExpectedBody = []byte(s.ExpectedBodyText)
	} else if s.ExpectedBody != nil {
		// normalize the YAML value to JSON so the comparison is structural
		data, err := json.Marshal(s.ExpectedBody)
		if err != nil {
			return resttest.Scenario{}, fmt.Errorf("cannot encode expectedBody as JSON: %w", err)
		}
		scenario.ExpectedBody = json.RawMessage(data)
	}

	return scenario, nil
}
