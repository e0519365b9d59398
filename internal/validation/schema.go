package validation

// workoutPayloadSchema is the structural contract for generated workout
// documents. Block type values and the reps integer-or-duration union are
// part of the client compatibility contract and must not drift.
const workoutPayloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["date", "title", "durationMinutes", "blocks"],
  "properties": {
    "date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "title": {"type": "string", "minLength": 1},
    "durationMinutes": {"type": "integer", "minimum": 1},
    "coachNotes": {"type": "string"},
    "blocks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "items"],
        "properties": {
          "type": {"type": "string", "enum": ["warmup", "main", "recovery"]},
          "items": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["exerciseId", "name", "sets", "reps"],
              "properties": {
                "exerciseId": {"type": "integer", "minimum": 1},
                "name": {"type": "string", "minLength": 1},
                "sets": {"type": "integer", "minimum": 1},
                "reps": {
                  "oneOf": [
                    {"type": "integer", "minimum": 1},
                    {"type": "string", "minLength": 1}
                  ]
                },
                "load": {"type": "string"},
                "restSeconds": {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`
