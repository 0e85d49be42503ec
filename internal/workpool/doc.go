// Package workpool provides the fixed-size goroutine pool used for block-parallel
// nearest-cluster search, plus the process-wide default instance.
package workpool
