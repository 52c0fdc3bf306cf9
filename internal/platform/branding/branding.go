// Package branding centralizes user-facing product names.
package branding

// AppName is the product name presented to MCP clients.
const AppName = "Easel"
