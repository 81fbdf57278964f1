// Package util provides small generic helpers used across authkit:
// pointer helpers and secret masking for safe logging.
package util
