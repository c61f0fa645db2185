// package tasks implements the long-running library operations: syncing
// playlists onto external devices and scanning folders into the catalog.
//
// The core abstraction is DeviceEngine, which orchestrates incremental
// device syncs: it plans work items from the selected playlists, propagates
// playlist folder renames, skips files the device already holds, transfers
// the rest (copying or transcoding per device policy), and persists the
// device manifest after every successful item so an interrupted sync leaves
// the ledger consistent with the files actually written.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers, and honor context cancellation between items.
package tasks
