// Package contact lists contacts and manages per-contact state: visibility
// rules, verification marks, and removal.
package contact
