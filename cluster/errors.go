package cluster

import "errors"

// ErrRegistryMismatch is returned by Merge for clusters built on different registries.
var ErrRegistryMismatch = errors.New("cluster: registry mismatch")
