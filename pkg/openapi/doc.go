// Package openapi publishes the survey HTTP API as an OpenAPI 3 document. The
// kin-openapi types stay under internal/openapi; callers get the encoded
// document.
package openapi
