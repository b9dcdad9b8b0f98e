// Package store provides the Badger-backed storage collaborator for the catalog.
//
// Each entity type gets a key prefix and JSON-encoded values; natural keys
// (ISBN, email, name, membership number) are enforced through unique
// secondary indexes. Queries that have no index run as prefix scans over the
// full snapshot; the catalog of a small library fits comfortably in memory.
package store

import (
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/stackroomapp/stackroom-server/internal/domain"
)

// Key prefixes, one per entity type.
const (
	prefixBook        = "book:"
	prefixAuthor      = "author:"
	prefixCategory    = "category:"
	prefixMember      = "member:"
	prefixLoan        = "loan:"
	prefixReservation = "resv:"
)

// Store wraps a Badger database instance with typed entity access.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Books        *Entity[domain.Book]
	Authors      *Entity[domain.Author]
	Categories   *Entity[domain.Category]
	Members      *Entity[domain.Member]
	Loans        *Entity[domain.Loan]
	Reservations *Entity[domain.Reservation]
}

// New creates a new Store instance at the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, storageErr("open badger db", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.initEntities()

	if logger != nil {
		logger.Info("catalog database opened", "path", path)
	}

	return s, nil
}

// initEntities wires the typed entity handles and their natural-key indexes.
func (s *Store) initEntities() {
	s.Books = NewEntity[domain.Book](s, prefixBook).
		WithIndex("isbn", func(b *domain.Book) []string {
			if b.ISBN == "" {
				return nil
			}
			return []string{b.ISBN}
		})

	s.Authors = NewEntity[domain.Author](s, prefixAuthor).
		WithIndexTransform("name", func(a *domain.Author) []string {
			if a.Name == "" {
				return nil
			}
			return []string{strings.ToLower(a.Name)}
		}, strings.ToLower)

	s.Categories = NewEntity[domain.Category](s, prefixCategory).
		WithIndexTransform("name", func(c *domain.Category) []string {
			if c.Name == "" {
				return nil
			}
			return []string{strings.ToLower(c.Name)}
		}, strings.ToLower)

	s.Members = NewEntity[domain.Member](s, prefixMember).
		WithIndexTransform("email", func(m *domain.Member) []string {
			if m.Email == "" {
				return nil
			}
			return []string{strings.ToLower(m.Email)}
		}, strings.ToLower).
		WithIndex("membership_number", func(m *domain.Member) []string {
			if m.MembershipNumber == "" {
				return nil
			}
			return []string{m.MembershipNumber}
		})

	s.Loans = NewEntity[domain.Loan](s, prefixLoan)
	s.Reservations = NewEntity[domain.Reservation](s, prefixReservation)
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing catalog database")
	}
	return s.db.Close()
}
