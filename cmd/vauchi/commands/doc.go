// Package commands defines the vauchi CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init           Create the local identity and an empty card
//   - fingerprint    Print the identity fingerprint for verification
//   - card           Show and edit your contact card
//   - contacts       List contacts and mark them verified
//   - visibility     Control which contacts see which fields
//   - exchange       Publish or complete a contact exchange
//   - sync           Push your card changes and pull theirs
//   - backup         Export or import an encrypted backup
//
// # Implementation
//
// The root command builds a dependency graph (stores, services, relay
// client) before any subcommand runs, so handlers share one app context.
// The passphrase is prompted for interactively unless -p is given.
package commands
