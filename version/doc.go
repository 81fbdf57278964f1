// Package version exposes the build version of an authkit binary.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/authkit/version.Version=1.0.0"
package version
