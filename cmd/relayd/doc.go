// Package main runs the in-memory HTTP relay used by vauchi during
// development and tests. It queues encrypted envelopes for recipients until
// they fetch and acknowledge them.
//
// HTTP API
//
//	POST /msg/{addr}
//	    Enqueue an Envelope destined to {addr}. If Timestamp is zero, the
//	    server fills it with the current Unix time.
//
//	GET /msg/{addr}?limit=N
//	    Return up to N queued Envelopes for {addr}. If limit is absent or
//	    greater than the queue length, all queued envelopes are returned.
//
//	POST /msg/{addr}/ack { "count": N }
//	    Drop the first N queued envelopes for {addr}. If N exceeds the queue
//	    length, the queue is cleared.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON. Non-2xx statuses carry a short error message.
//   - The default listen address is :8080.
//
// This relay is intended for local use or as an untrusted middleman on a
// private network. It only ever stores ciphertext addressed by public key;
// card content, field names, and visibility rules never reach it.
package main
