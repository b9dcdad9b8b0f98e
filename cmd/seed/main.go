// Package main provides a tool to seed the database with a demo catalog.
//
// The demo data covers every corner of the circulation model: books in
// several statuses, an inactive member, an open loan that is already
// overdue, and a pending reservation past its expiry date.
//
// Usage:
//
//	DB_PATH=~/stackroom/db go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/stackroomapp/stackroom-server/internal/domain"
	"github.com/stackroomapp/stackroom-server/internal/id"
	"github.com/stackroomapp/stackroom-server/internal/store"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/stackroom/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	count, err := s.CountBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}
	if count > 0 {
		fmt.Printf("Database already holds %d books, nothing to do\n", count)
		return
	}

	categories := seedCategories(ctx, s)
	authors := seedAuthors(ctx, s)
	books := seedBooks(ctx, s, authors, categories)
	members := seedMembers(ctx, s)
	seedLoans(ctx, s, books, members)
	seedReservations(ctx, s, books, members)

	fmt.Println("Demo catalog seeded")
}

func seedCategories(ctx context.Context, s *store.Store) map[string]*domain.Category {
	fmt.Println("Creating categories...")

	specs := []struct {
		name, description, color string
	}{
		{"Fiction", "Novels and literary fiction", "#FF6B6B"},
		{"Science Fiction", "Speculative and science fiction", "#4ECDC4"},
		{"Philosophy", "Philosophy and essays", "#45B7D1"},
		{"Psychology", "Psychology and the mind", "#96CEB4"},
		{"History", "Historical works", "#FFEAA7"},
		{"Technology", "Software and engineering", "#DDA0DD"},
	}

	out := make(map[string]*domain.Category, len(specs))
	for _, spec := range specs {
		c := &domain.Category{
			Name:        spec.name,
			Description: spec.description,
			Color:       spec.color,
		}
		c.ID = id.MustGenerate(id.PrefixCategory)
		c.InitTimestamps()
		if err := s.Categories.Create(ctx, c.ID, c); err != nil {
			log.Fatalf("Failed to create category %q: %v", c.Name, err)
		}
		out[c.Name] = c
	}
	return out
}

func seedAuthors(ctx context.Context, s *store.Store) map[string]*domain.Author {
	fmt.Println("Creating authors...")

	specs := []struct {
		name, biography, email, nationality string
		birthYear                           int
	}{
		{"Orhan Pamuk", "Nobel laureate Turkish novelist", "orhan.pamuk@example.com", "Turkish", 1952},
		{"George Orwell", "English novelist and journalist", "george.orwell@example.com", "British", 1903},
		{"Albert Camus", "French writer and philosopher", "albert.camus@example.com", "French", 1913},
		{"Stephen King", "American horror and suspense writer", "stephen.king@example.com", "American", 1947},
	}

	out := make(map[string]*domain.Author, len(specs))
	for _, spec := range specs {
		a := &domain.Author{
			Name:        spec.name,
			Biography:   spec.biography,
			Email:       spec.email,
			BirthYear:   spec.birthYear,
			Nationality: spec.nationality,
		}
		a.ID = id.MustGenerate(id.PrefixAuthor)
		a.InitTimestamps()
		if err := s.Authors.Create(ctx, a.ID, a); err != nil {
			log.Fatalf("Failed to create author %q: %v", a.Name, err)
		}
		out[a.Name] = a
	}
	return out
}

func seedBooks(ctx context.Context, s *store.Store, authors map[string]*domain.Author, categories map[string]*domain.Category) map[string]*domain.Book {
	fmt.Println("Creating books...")

	authorID := func(name string) string {
		if a, ok := authors[name]; ok {
			return a.ID
		}
		return ""
	}
	categoryIDs := func(names ...string) []string {
		ids := make([]string, 0, len(names))
		for _, name := range names {
			if c, ok := categories[name]; ok {
				ids = append(ids, c.ID)
			}
		}
		return ids
	}

	books := []*domain.Book{
		{
			Title:           "Snow",
			ISBN:            "9789750719386",
			Description:     "A political novel set in Kars",
			PageCount:       440,
			PublicationYear: 2002,
			Publisher:       "Iletisim",
			Language:        "Turkish",
			Price:           45.00,
			Status:          domain.StatusAvailable,
			Location:        "Block A - Shelf 1",
			AuthorID:        authorID("Orhan Pamuk"),
			CategoryIDs:     categoryIDs("Fiction"),
		},
		{
			Title:           "1984",
			ISBN:            "9789750719393",
			Description:     "A dystopian vision of the future",
			PageCount:       328,
			PublicationYear: 1949,
			Publisher:       "Secker & Warburg",
			Language:        "English",
			Price:           35.00,
			Status:          domain.StatusBorrowed,
			Location:        "Block B - Shelf 2",
			AuthorID:        authorID("George Orwell"),
			CategoryIDs:     categoryIDs("Science Fiction", "Fiction"),
		},
		{
			Title:           "The Stranger",
			ISBN:            "9789750719400",
			Description:     "Existentialist philosophy in novel form",
			PageCount:       184,
			PublicationYear: 1942,
			Publisher:       "Gallimard",
			Language:        "French",
			Price:           25.00,
			Status:          domain.StatusAvailable,
			Location:        "Block C - Shelf 3",
			AuthorID:        authorID("Albert Camus"),
			CategoryIDs:     categoryIDs("Fiction", "Philosophy"),
		},
		{
			Title:           "My Sweet Orange Tree",
			ISBN:            "9789750719417",
			Description:     "The world through a child's eyes",
			PageCount:       272,
			PublicationYear: 1968,
			Publisher:       "Melhoramentos",
			Language:        "Portuguese",
			Price:           30.00,
			Status:          domain.StatusAvailable,
			Location:        "Block A - Shelf 4",
			CategoryIDs:     categoryIDs("Fiction"),
		},
		{
			Title:           "The Shining",
			ISBN:            "9789750719424",
			Description:     "A landmark of the horror genre",
			PageCount:       447,
			PublicationYear: 1977,
			Publisher:       "Doubleday",
			Language:        "English",
			Price:           40.00,
			Status:          domain.StatusReserved,
			Location:        "Block D - Shelf 5",
			AuthorID:        authorID("Stephen King"),
			CategoryIDs:     categoryIDs("Fiction", "Psychology"),
		},
		{
			Title:           "The Kite Runner",
			ISBN:            "9789750719431",
			Description:     "A story of friendship set in Afghanistan",
			PageCount:       368,
			PublicationYear: 2003,
			Publisher:       "Riverhead",
			Language:        "English",
			Price:           35.00,
			Status:          domain.StatusAvailable,
			Location:        "Block B - Shelf 6",
			CategoryIDs:     categoryIDs("Fiction", "History"),
		},
		{
			Title:           "Clean Code",
			ISBN:            "9789750719448",
			Description:     "Principles for writing maintainable software",
			PageCount:       464,
			PublicationYear: 2008,
			Publisher:       "Prentice Hall",
			Language:        "English",
			Price:           60.00,
			Status:          domain.StatusAvailable,
			Location:        "Block E - Shelf 7",
			CategoryIDs:     categoryIDs("Technology"),
		},
		{
			Title:           "Les Miserables",
			ISBN:            "9789750719455",
			Description:     "Victor Hugo's magnum opus",
			PageCount:       1488,
			PublicationYear: 1862,
			Publisher:       "A. Lacroix",
			Language:        "French",
			Price:           80.00,
			Status:          domain.StatusAvailable,
			Location:        "Block F - Shelf 8",
			CategoryIDs:     categoryIDs("Fiction", "History"),
		},
	}

	out := make(map[string]*domain.Book, len(books))
	for _, b := range books {
		b.ID = id.MustGenerate(id.PrefixBook)
		b.InitTimestamps()
		if err := s.Books.Create(ctx, b.ID, b); err != nil {
			log.Fatalf("Failed to create book %q: %v", b.Title, err)
		}
		out[b.ISBN] = b
	}
	return out
}

func seedMembers(ctx context.Context, s *store.Store) map[string]*domain.Member {
	fmt.Println("Creating members...")

	now := time.Now().UTC()
	birth := func(year int, month time.Month, day int) *time.Time {
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	members := []*domain.Member{
		{
			FirstName:           "Ahmet",
			LastName:            "Yilmaz",
			Email:               "ahmet.yilmaz@example.com",
			Phone:               "0532 123 45 67",
			BirthDate:           birth(1985, time.May, 15),
			Address:             "Kadikoy, Istanbul",
			MembershipNumber:    "MEM001",
			Active:              true,
			MembershipStartDate: now.AddDate(-1, 0, 0),
		},
		{
			FirstName:           "Ayse",
			LastName:            "Demir",
			Email:               "ayse.demir@example.com",
			Phone:               "0533 234 56 78",
			BirthDate:           birth(1990, time.August, 22),
			Address:             "Besiktas, Istanbul",
			MembershipNumber:    "MEM002",
			Active:              true,
			MembershipStartDate: now.AddDate(0, -6, 0),
		},
		{
			FirstName:           "Mehmet",
			LastName:            "Kaya",
			Email:               "mehmet.kaya@example.com",
			Phone:               "0534 345 67 89",
			BirthDate:           birth(1978, time.December, 10),
			Address:             "Cankaya, Ankara",
			MembershipNumber:    "MEM003",
			Active:              false,
			MembershipStartDate: now.AddDate(-2, 0, 0),
		},
	}
	ended := now.AddDate(-1, 0, 0)
	members[2].MembershipEndDate = &ended

	out := make(map[string]*domain.Member, len(members))
	for _, m := range members {
		m.ID = id.MustGenerate(id.PrefixMember)
		m.InitTimestamps()
		if err := s.Members.Create(ctx, m.ID, m); err != nil {
			log.Fatalf("Failed to create member %q: %v", m.Email, err)
		}
		out[m.Email] = m
	}
	return out
}

func seedLoans(ctx context.Context, s *store.Store, books map[string]*domain.Book, members map[string]*domain.Member) {
	fmt.Println("Creating loans...")

	today := domain.DateOnly(time.Now())

	// An open loan still inside its window.
	current := &domain.Loan{
		BookID:     books["9789750719393"].ID, // 1984
		MemberID:   members["ahmet.yilmaz@example.com"].ID,
		BorrowDate: today.AddDate(0, 0, -5),
	}
	current.FillDefaultDueDate()

	// An open loan already past due; fines accrue daily until it comes back.
	overdue := &domain.Loan{
		BookID:     books["9789750719424"].ID, // The Shining
		MemberID:   members["ayse.demir@example.com"].ID,
		BorrowDate: today.AddDate(0, 0, -16),
	}
	overdue.FillDefaultDueDate()

	for _, l := range []*domain.Loan{current, overdue} {
		l.ID = id.MustGenerate(id.PrefixLoan)
		l.InitTimestamps()
		if err := s.Loans.Create(ctx, l.ID, l); err != nil {
			log.Fatalf("Failed to create loan: %v", err)
		}
	}
}

func seedReservations(ctx context.Context, s *store.Store, books map[string]*domain.Book, members map[string]*domain.Member) {
	fmt.Println("Creating reservations...")

	today := domain.DateOnly(time.Now())

	// A fresh pending reservation.
	pending := &domain.Reservation{
		BookID:          books["9789750719386"].ID, // Snow
		MemberID:        members["ahmet.yilmaz@example.com"].ID,
		ReservationDate: today.AddDate(0, 0, -2),
		Status:          domain.ReservationPending,
	}
	pending.FillDefaultExpiryDate()

	// A pending reservation past expiry, ready for the sweep to pick up.
	stale := &domain.Reservation{
		BookID:          books["9789750719400"].ID, // The Stranger
		MemberID:        members["ayse.demir@example.com"].ID,
		ReservationDate: today.AddDate(0, 0, -10),
		Status:          domain.ReservationPending,
	}
	stale.FillDefaultExpiryDate()

	for _, r := range []*domain.Reservation{pending, stale} {
		r.ID = id.MustGenerate(id.PrefixReservation)
		r.InitTimestamps()
		if err := s.Reservations.Create(ctx, r.ID, r); err != nil {
			log.Fatalf("Failed to create reservation: %v", err)
		}
	}
}
