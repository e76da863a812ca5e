package dashboard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/stations.schema.json
var stationsSchema []byte

const stationsSchemaName = "stations.schema.json"

var defaultDatasetValidator = NewDatasetValidator()

// DatasetValidator checks raw StationsInfo payloads against the embedded JSON schema.
type DatasetValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewDatasetValidator builds a validator backed by jsonschema v5. The schema is
// compiled lazily on first use.
func NewDatasetValidator() *DatasetValidator {
	return &DatasetValidator{}
}

// Validate returns nil when raw is a well-formed dataset. Schema violations are
// reported one per offending JSON pointer, joined together.
func (v *DatasetValidator) Validate(raw []byte) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := schema.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return flattenValidationError(verr)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}

func (v *DatasetValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(stationsSchemaName, bytes.NewReader(stationsSchema)); err != nil {
			v.err = fmt.Errorf("dashboard: load dataset schema: %w", err)
			return
		}
		compiled, err := compiler.Compile(stationsSchemaName)
		if err != nil {
			v.err = fmt.Errorf("dashboard: compile dataset schema: %w", err)
			return
		}
		v.compiled = compiled
	})
	return v.compiled, v.err
}

func flattenValidationError(root *jsonschema.ValidationError) error {
	leaves := map[string]string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "/"
			}
			if _, seen := leaves[location]; !seen {
				leaves[location] = node.Message
			}
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(root)

	locations := make([]string, 0, len(leaves))
	for location := range leaves {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	errs := make([]error, 0, len(locations))
	for _, location := range locations {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidDataset, location, leaves[location]))
	}
	return errors.Join(errs...)
}
