// Package api carries the OpenAPI document the HTTP layer validates against.
package api

import _ "embed"

//go:embed openapi.yml
var Spec []byte
