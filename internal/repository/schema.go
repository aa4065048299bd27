package repository

import (
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskListSchemaURL = "checklist://schemas/task-list.json"

// taskListSchemaJSON describes the stored task list. Extra properties are
// allowed so older readers tolerate fields added later.
const taskListSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "day", "completed"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "text": {"type": "string"},
      "day": {"type": ["string", "integer"]},
      "completed": {"type": "boolean"}
    }
  }
}`

var taskListSchema = jsonschema.MustCompileString(taskListSchemaURL, taskListSchemaJSON)

// schemaError flattens a jsonschema failure to its first leaf cause.
func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Errorf("%s: %s", location, ve.Message)
}
