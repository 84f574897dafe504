//go:build cgo

package store

const cgoEnabled = true
