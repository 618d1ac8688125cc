package store_test

import (
	"testing"

	"vauchi/internal/domain"
	"vauchi/internal/store"
)

func TestIdentity_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	pass := "pass"

	var ids domain.IdentityStore = store.NewIdentityFileStore(home)

	id := domain.Identity{
		XPub:        domain.X25519Public{1},
		XPriv:       domain.X25519Private{2},
		EdPub:       domain.Ed25519Public{3},
		EdPriv:      domain.Ed25519Private{4},
		DisplayName: "alice",
	}

	if err := ids.SaveIdentity(pass, id); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	got, err := ids.LoadIdentity(pass)
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if got.XPub != id.XPub || got.EdPub != id.EdPub || got.DisplayName != "alice" {
		t.Fatalf("mismatch after load")
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewIdentityFileStore(home)

	id := domain.Identity{XPub: domain.X25519Public{1}, XPriv: domain.X25519Private{2}}

	if err := ids.SaveIdentity("correct", id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if _, err := ids.LoadIdentity("wrong"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestIdentity_Has(t *testing.T) {
	home := t.TempDir()
	s := store.NewIdentityFileStore(home)

	ok, err := s.HasIdentity()
	if err != nil || ok {
		t.Fatalf("empty dir: got ok=%v err=%v", ok, err)
	}
	if err := s.SaveIdentity("pass", domain.Identity{}); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	ok, err = s.HasIdentity()
	if err != nil || !ok {
		t.Fatalf("after save: got ok=%v err=%v", ok, err)
	}
}

func TestCard_LoadMissing(t *testing.T) {
	home := t.TempDir()
	var cs domain.CardStore = store.NewCardFileStore(home)

	_, ok, err := cs.LoadCard("pass")
	if err != nil {
		t.Fatalf("load card: %v", err)
	}
	if ok {
		t.Fatal("expected no card in a fresh dir")
	}
}

func TestCard_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var cs domain.CardStore = store.NewCardFileStore(home)

	card := domain.ContactCard{
		DisplayName: "Alice",
		Fields: []domain.Field{
			{ID: "f1", Type: domain.FieldEmail, Label: "work", Value: "alice@example.com"},
		},
		Version: 3,
	}
	if err := cs.SaveCard("pass", card); err != nil {
		t.Fatalf("save card: %v", err)
	}

	got, ok, err := cs.LoadCard("pass")
	if err != nil || !ok {
		t.Fatalf("load card: ok=%v err=%v", ok, err)
	}
	if got.Version != 3 || len(got.Fields) != 1 || got.Fields[0].Value != "alice@example.com" {
		t.Fatalf("mismatch after load: %+v", got)
	}
}

func TestContacts_CRUD(t *testing.T) {
	home := t.TempDir()
	var cs domain.ContactStore = store.NewContactFileStore(home)

	a := domain.Contact{ID: "aa", DisplayName: "Alice", CreatedUnix: 10}
	b := domain.Contact{ID: "bb", DisplayName: "Bob", CreatedUnix: 5}
	for _, c := range []domain.Contact{a, b} {
		if err := cs.SaveContact("pass", c); err != nil {
			t.Fatalf("save contact %s: %v", c.ID, err)
		}
	}

	got, ok, err := cs.LoadContact("pass", "aa")
	if err != nil || !ok {
		t.Fatalf("load contact: ok=%v err=%v", ok, err)
	}
	if got.DisplayName != "Alice" {
		t.Fatalf("wrong contact: %+v", got)
	}

	all, err := cs.ListContacts("pass")
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(all) != 2 || all[0].ID != "bb" || all[1].ID != "aa" {
		t.Fatalf("wrong order: %+v", all)
	}

	if err := cs.DeleteContact("pass", "aa"); err != nil {
		t.Fatalf("delete contact: %v", err)
	}
	if _, ok, _ := cs.LoadContact("pass", "aa"); ok {
		t.Fatal("contact still present after delete")
	}
	// Deleting twice is a no-op.
	if err := cs.DeleteContact("pass", "aa"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestContacts_RatchetStateSurvivesRoundTrip(t *testing.T) {
	home := t.TempDir()
	var cs domain.ContactStore = store.NewContactFileStore(home)

	c := domain.Contact{
		ID: "aa",
		Ratchet: domain.RatchetState{
			RootKey: []byte{1, 2, 3},
			Ns:      7,
			Skipped: map[string][]byte{"k": {9}},
		},
	}
	if err := cs.SaveContact("pass", c); err != nil {
		t.Fatalf("save contact: %v", err)
	}
	got, _, err := cs.LoadContact("pass", "aa")
	if err != nil {
		t.Fatalf("load contact: %v", err)
	}
	if got.Ratchet.Ns != 7 || len(got.Ratchet.Skipped) != 1 {
		t.Fatalf("ratchet state lost: %+v", got.Ratchet)
	}
}

func TestSessions_SaveLoadDelete(t *testing.T) {
	home := t.TempDir()
	var ss domain.SessionStore = store.NewSessionFileStore(home)

	s := domain.ExchangeSession{
		State:     domain.ExchangeCreated,
		CreatedAt: 100,
	}
	s.Bundle.SignedPrekey = domain.X25519Public{7}
	key := s.Bundle.SignedPrekey.Hex()

	if err := ss.SaveSession("pass", s); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, ok, err := ss.LoadSession("pass", key)
	if err != nil || !ok {
		t.Fatalf("load session: ok=%v err=%v", ok, err)
	}
	if got.State != domain.ExchangeCreated || got.CreatedAt != 100 {
		t.Fatalf("mismatch after load: %+v", got)
	}

	if err := ss.DeleteSession("pass", key); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, _ := ss.LoadSession("pass", key); ok {
		t.Fatal("session still present after delete")
	}
}
