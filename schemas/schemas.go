// Package schemas embeds the JSON Schemas used to validate input artifacts.
package schemas

import _ "embed"

// ArtifactSchemaJSON validates the pipeline run snapshot that carries
// model_comparison.
//
//go:embed artifact.schema.json
var ArtifactSchemaJSON string
