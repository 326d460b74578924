// Package util provides shared helpers for safe file-path validation and
// log-body truncation used across stubd packages.
package util
