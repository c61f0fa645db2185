// package device persists per-device sync state at the destination root and
// inspects the destination volume.
//
// Two JSON documents live at the root of every synced device: ormimu_config.json
// holds the device's sync policy, ormimu_manifest.json is the ledger that maps
// destination-relative paths to source song identities. The manifest is the
// basis for skip detection and playlist folder rename propagation.
package device
