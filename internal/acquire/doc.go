// Package acquire provides the producer side of the capture
// container: a deterministic signal generator standing in for device
// acquisition, and a spool-directory watcher that ingests capture
// files dropped by external tooling. Both install completed captures
// into the shared container via one atomic replace.
package acquire
