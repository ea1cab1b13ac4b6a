// Package schemas holds the embedded JSON Schema for conveyor.yaml.
package schemas

// PipelineV1Schema is the JSON Schema for conveyor.yaml v1 definitions.
var PipelineV1Schema = []byte(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Conveyor Pipeline v1",
  "type": "object",
  "required": ["pipeline", "stages"],
  "additionalProperties": false,
  "properties": {
    "pipeline": {"type": "string", "pattern": "^[a-z0-9-]+$"},
    "version": {"type": "string"},
    "workdir": {"type": "string"},
    "env": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "require_env": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "stages": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "run": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "uses": {
            "type": "string",
            "enum": ["quality-gate", "health-check", "image", "manifest-update"]
          },
          "with": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          },
          "timeout": {"type": "string"}
        }
      }
    },
    "post": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "always": {"type": "array", "items": {"type": "string"}},
        "on_success": {"type": "array", "items": {"type": "string"}},
        "on_failure": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`)
