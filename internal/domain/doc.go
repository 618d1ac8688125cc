// Package domain holds the core types shared across Vauchi: identity and key
// material, contact cards and their fields, contacts with per-field visibility
// rules, Double Ratchet state, card deltas, exchange bundles, and the
// interfaces implemented by stores, services, and the relay client.
//
// Types here carry no behaviour beyond construction, cloning, and
// serialization. Protocol logic lives in internal/protocol, internal/card,
// internal/sync, and internal/exchange.
package domain
