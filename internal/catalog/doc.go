// Package catalog discovers the programs reachable through the search path
// and serves prefix completions over a snapshot that is built exactly once.
//
// A Builder performs the filesystem scan. A Cache owns the result of one
// scan: WarmUp starts the scan in the background, and Query waits for it the
// first time it is called and then answers from the immutable snapshot.
package catalog
