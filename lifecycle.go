package ensemble

import "github.com/hupe1980/ensemble/internal/workpool"

// Init starts the process-wide worker pool used for nearest-cluster search.
// Calling it is optional; the pool is created on first use.
func Init() { workpool.Init() }

// Terminate stops the process-wide worker pool, waiting up to ten seconds for
// running searches. It is idempotent, and a later run starts a new pool.
//
// Programs that cluster should call it before exiting:
//
//	func main() {
//	    defer ensemble.Terminate()
//	    ...
//	}
func Terminate() { workpool.Terminate() }
