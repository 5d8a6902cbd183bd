// Package installer orchestrates installing and removing the gasoline
// service entry across all targeted clients.
//
// One pass walks the client registry sequentially and dispatches on
// integration kind: file-type clients go through the configfile store,
// CLI-type clients through a timeout-bounded [Runner] invoking the
// client's own registration tool with the JSON entry on stdin.
//
// Failures are isolated per client: every requested client is attempted
// and its outcome recorded in a [BatchResult]; a batch succeeds when at
// least one client did. Dry-run passes report intended actions without
// any filesystem mutation or external process launch.
package installer
