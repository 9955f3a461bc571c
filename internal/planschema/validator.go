package planschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pulsefit/coach-app/internal/domain"
)

// SchemaVersion identifies the structural contract enforced by this package.
// Stored on every plan record so stored documents can be told apart after a
// future schema change.
const SchemaVersion = "2024-06"

// ErrMalformedJSON means the collaborator's output could not be parsed at all.
var ErrMalformedJSON = errors.New("plan response is not valid JSON")

// SchemaViolationError names the first field path where the parsed document
// departs from the required structure. Types are never coerced: a scalar where
// an array is required (or vice versa) is a violation, not a fixup.
type SchemaViolationError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func violation(path, expected string, value interface{}, present bool) *SchemaViolationError {
	if !present {
		return &SchemaViolationError{Path: path, Expected: expected, Actual: "missing"}
	}
	return &SchemaViolationError{Path: path, Expected: expected, Actual: typeName(value)}
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

func parseRoot(raw string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)
	// Some models fence JSON output despite being asked for raw JSON.
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, ErrMalformedJSON
	}
	root, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, violation("$", "object", parsed, true)
	}
	return root, nil
}

// --- typed field accessors -------------------------------------------------

func objField(obj map[string]interface{}, path, key string) (map[string]interface{}, error) {
	value, present := obj[key]
	child, ok := value.(map[string]interface{})
	if !present || !ok {
		return nil, violation(path+"."+key, "object", value, present)
	}
	return child, nil
}

func strField(obj map[string]interface{}, path, key string) (string, error) {
	value, present := obj[key]
	s, ok := value.(string)
	if !present || !ok {
		return "", violation(path+"."+key, "string", value, present)
	}
	return s, nil
}

func boolField(obj map[string]interface{}, path, key string) (bool, error) {
	value, present := obj[key]
	b, ok := value.(bool)
	if !present || !ok {
		return false, violation(path+"."+key, "boolean", value, present)
	}
	return b, nil
}

// numField enforces the non-negative numeric contract shared by every numeric
// field in both plan schemas (sets, durations, calories, ...).
func numField(obj map[string]interface{}, path, key string) (float64, error) {
	value, present := obj[key]
	n, ok := value.(float64)
	if !present || !ok {
		return 0, violation(path+"."+key, "number", value, present)
	}
	if n < 0 {
		return 0, &SchemaViolationError{Path: path + "." + key, Expected: "non-negative number", Actual: "negative number"}
	}
	return n, nil
}

func intField(obj map[string]interface{}, path, key string) (int, error) {
	n, err := numField(obj, path, key)
	return int(n), err
}

func arrField(obj map[string]interface{}, path, key string) ([]interface{}, string, error) {
	value, present := obj[key]
	arr, ok := value.([]interface{})
	if !present || !ok {
		return nil, "", violation(path+"."+key, "array", value, present)
	}
	return arr, path + "." + key, nil
}

func strSliceField(obj map[string]interface{}, path, key string) ([]string, error) {
	arr, arrPath, err := arrField(obj, path, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, violation(fmt.Sprintf("%s[%d]", arrPath, i), "string", item, true)
		}
		out = append(out, s)
	}
	return out, nil
}

func enumField(obj map[string]interface{}, path, key string, allowed []string) (string, error) {
	s, err := strField(obj, path, key)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", &SchemaViolationError{
		Path:     path + "." + key,
		Expected: "one of [" + strings.Join(allowed, ", ") + "]",
		Actual:   fmt.Sprintf("%q", s),
	}
}

func itemObj(arr []interface{}, arrPath string, i int) (map[string]interface{}, string, error) {
	obj, ok := arr[i].(map[string]interface{})
	path := fmt.Sprintf("%s[%d]", arrPath, i)
	if !ok {
		return nil, "", violation(path, "object", arr[i], true)
	}
	return obj, path, nil
}

func parseMeta(root map[string]interface{}) (domain.PlanMeta, error) {
	var meta domain.PlanMeta
	metaObj, err := objField(root, "$", "meta")
	if err != nil {
		return meta, err
	}
	if meta.PlanName, err = strField(metaObj, "meta", "planName"); err != nil {
		return meta, err
	}
	if meta.PlanDescription, err = strField(metaObj, "meta", "planDescription"); err != nil {
		return meta, err
	}
	if meta.PlanDurationWeeks, err = intField(metaObj, "meta", "planDurationWeeks"); err != nil {
		return meta, err
	}
	return meta, nil
}
