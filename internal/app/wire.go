package app

import (
	"os"

	"github.com/sirupsen/logrus"

	"vauchi/internal/domain"
	"vauchi/internal/relay"
	cardsvc "vauchi/internal/services/card"
	contactsvc "vauchi/internal/services/contact"
	exchangesvc "vauchi/internal/services/exchange"
	identitysvc "vauchi/internal/services/identity"
	syncsvc "vauchi/internal/services/sync"
	"vauchi/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identity domain.IdentityService
	Cards    domain.CardService
	Contacts domain.ContactService
	Exchange domain.ExchangeService
	Sync     domain.SyncService
	Relay    domain.RelayClient
	Log      *logrus.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home)
	cardStore := store.NewCardFileStore(cfg.Home)
	contactStore := store.NewContactFileStore(cfg.Home)
	sessionStore := store.NewSessionFileStore(cfg.Home)

	// Relay client
	rc := relay.NewHTTP(cfg.RelayURL)
	if cfg.HTTP != nil {
		rc.HTTP = cfg.HTTP
	}

	// High-level services
	identitySvc := identitysvc.New(identityStore, cardStore, contactStore)
	cardSvc := cardsvc.New(identityStore, cardStore)
	contactSvc := contactsvc.New(contactStore, cardStore)
	syncSvc := syncsvc.New(identityStore, cardStore, contactStore, sessionStore, rc, log)
	exchangeSvc := exchangesvc.New(identityStore, contactStore, sessionStore, syncSvc)

	return &Wire{
		Identity: identitySvc,
		Cards:    cardSvc,
		Contacts: contactSvc,
		Exchange: exchangeSvc,
		Sync:     syncSvc,
		Relay:    rc,
		Log:      log,
	}, nil
}
