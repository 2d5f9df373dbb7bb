// Package entitlements enforces per-plan input duration limits before the
// pipeline commits to expensive work. Limits come from configuration; unknown
// plan names fall back to the default plan so a stale client can never unlock
// a larger allowance than it paid for.
package entitlements
