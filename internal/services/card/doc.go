// Package card edits the owner's contact card.
//
// Every successful edit bumps the card version and persists before
// returning; the sync service picks up the new version on its next push.
package card
