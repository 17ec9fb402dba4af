// internal/version/version.go
package version

// Version is set with -ldflags "-X gffkit/internal/version.Version=...".
var Version = "dev"
