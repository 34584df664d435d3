// Package api embeds the service's OpenAPI document. The server bindings in
// internal/generated/servers are generated from it.
package api

import _ "embed"

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen -generate types,server -package servers -o ../internal/generated/servers/servers.gen.go openapi.yml

// OpenAPI is the raw YAML document.
//
//go:embed openapi.yml
var OpenAPI []byte
