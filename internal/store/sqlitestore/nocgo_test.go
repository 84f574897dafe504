//go:build !cgo

package sqlitestore

const cgoEnabled = false
