package task

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON string

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// ValidateFile checks the task file at path against the embedded JSON Schema
// plus the checks the schema cannot express (id uniqueness). Interactive
// operation never calls this; a broken file is silently treated as empty
// there. This exists for the check command.
//
// The schema runs against the raw file contents, not the decoded structs, so
// fields Go would silently drop still get flagged.
func ValidateFile(path string) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("read task file: %w", err))
		return result
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("parse task file: %w", err))
		return result
	}

	// Decode failures surface through the schema, so the error is ignored
	// here; l stays usable for the cross-record checks either way.
	var l List
	_ = json.Unmarshal(data, &l)

	validateWithSchema(result, raw)
	if !result.UsedSchema {
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		validateMinimal(result, l)
		return result
	}

	// The schema cannot express cross-record constraints.
	validateUniqueIDs(result, l)
	return result
}

// Validate runs the minimal checks on an in-memory collection.
func Validate(l List) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
	validateMinimal(result, l)
	return result
}

func validateMinimal(result *ValidationResult, l List) {
	for i := range l {
		path := fmt.Sprintf("[%d]", i)
		if err := validateTaskMinimal(&l[i], path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
	validateUniqueIDs(result, l)
}

func validateTaskMinimal(t *Task, path string) *ValidationError {
	if t.ID == "" {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{
			Path: path + ".title",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if t.CreatedAt < 0 {
		return &ValidationError{
			Path: path + ".createdAt",
			Err:  fmt.Errorf("must be non-negative, got %d", t.CreatedAt),
		}
	}

	if t.UpdatedAt < 0 {
		return &ValidationError{
			Path: path + ".updatedAt",
			Err:  fmt.Errorf("must be non-negative, got %d", t.UpdatedAt),
		}
	}

	return nil
}

func validateUniqueIDs(result *ValidationResult, l List) {
	seen := make(map[string]int, len(l))
	for i := range l {
		if first, ok := seen[l[i].ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q, first used at [%d]", l[i].ID, first),
			})
			continue
		}
		seen[l[i].ID] = i
	}
}

func validateWithSchema(result *ValidationResult, obj interface{}) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("tasks.schema.json", strings.NewReader(schemaJSON)); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid embedded schema: %v", err))
		return
	}
	schema, err := compiler.Compile("tasks.schema.json")
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid embedded schema: %v", err))
		return
	}

	result.UsedSchema = true

	if err := schema.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
