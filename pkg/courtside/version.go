// Package courtside carries build metadata for the courtside module.
package courtside

// Version is the release version reported by the CLI and the server.
const Version = "0.1.0"
