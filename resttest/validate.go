package resttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

// BodyValidator checks that a response body has an expected shape, independently of
// its exact contents.
type BodyValidator interface {
	ValidateBody(data []byte) error
}

// BodyAsType returns a BodyValidator that requires the response body to be valid
// JSON for the prototype's type, rejecting unknown fields. The prototype value
// itself is never modified; each validation decodes into a fresh instance.
//
//	scenario.ExpectedBodyType = resttest.BodyAsType(DepartmentOut{})
func BodyAsType(prototype interface{}) BodyValidator {
	if prototype == nil {
		panic("BodyAsType requires a non-nil prototype value")
	}
	baseType := reflect.TypeOf(prototype)
	for baseType.Kind() == reflect.Ptr {
		baseType = baseType.Elem()
	}
	return typeValidator{baseType: baseType}
}

type typeValidator struct {
	baseType reflect.Type
}

func (v typeValidator) ValidateBody(data []byte) error {
	target := reflect.New(v.baseType).Interface()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("response body is not a valid %s: %w", v.baseType, err)
	}
	if dec.More() {
		return fmt.Errorf("response body has trailing data after the %s value", v.baseType)
	}
	return nil
}

func (v typeValidator) String() string {
	return "type " + v.baseType.String()
}

// BodyMatchingSchema returns a BodyValidator that requires the response body to be
// JSON matching the given schema. The name is only used in failure messages. This
// is the validation mode used by suite files, where no Go type exists for the body.
func BodyMatchingSchema(name string, schema *openapi3.Schema) BodyValidator {
	return schemaValidator{name: name, schema: schema}
}

type schemaValidator struct {
	name   string
	schema *openapi3.Schema
}

func (v schemaValidator) ValidateBody(data []byte) error {
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("response body is not valid JSON: %w", err)
	}
	if err := v.schema.VisitJSON(decoded); err != nil {
		return fmt.Errorf("response body does not match schema %q: %w", v.name, err)
	}
	return nil
}

func (v schemaValidator) String() string {
	return "schema " + v.name
}
