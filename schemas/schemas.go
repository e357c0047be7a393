// Package schemas embeds the JSON schemas used to validate qagen files.
package schemas

import _ "embed"

// ConfigSchemaJSON is the JSON schema for .qagen.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
