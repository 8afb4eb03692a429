// Package main provides a tool to seed the catalog with demo data.
//
// It creates the default categories, a set of sample items spread across
// them, and randomized ratings and download counts so browsing, related
// items, and rating aggregates have something to show.
//
// Usage:
//
//	DATA_PATH=~/Up4Down/data go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/up4down/up4down-server/internal/category"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/id"
	"github.com/up4down/up4down-server/internal/store"
	"github.com/up4down/up4down-server/internal/store/sqlite"
)

// sampleItems are the demo catalog entries, keyed to default category slugs.
var sampleItems = []struct {
	title       string
	description string
	fileType    string
	fileSize    string
	version     string
	featured    bool
	categories  []string
}{
	{"Notepad Deluxe", "Minimal plain-text editor with autosave.", "exe", "4 MB", "2.1.0", true, []string{"software"}},
	{"Pixel Quest", "Retro platformer with 40 handcrafted levels.", "apk", "65 MB", "1.4.2", true, []string{"games", "apps"}},
	{"Ledger Lite", "Personal budgeting app with cloud sync.", "apk", "18 MB", "3.0.0", false, []string{"apps"}},
	{"Synthwave Pack", "Royalty-free synth loops and one-shots.", "zip", "220 MB", "1.0.0", false, []string{"music"}},
	{"Go Style Guide", "Printable quick reference for idiomatic Go.", "pdf", "2 MB", "1.2.0", false, []string{"documents", "ebooks"}},
	{"Port Scanner", "Fast concurrent TCP port scanner.", "exe", "8 MB", "0.9.1", false, []string{"software"}},
	{"Nature Timelapse", "4K open-license timelapse footage reel.", "mp4", "850 MB", "1.0.0", false, []string{"videos"}},
	{"Unit Converter", "Offline converter for 200+ unit pairs.", "apk", "12 MB", "2.3.1", false, []string{"apps"}},
	{"Dungeon Tiles", "Printable map tiles for tabletop campaigns.", "pdf", "45 MB", "1.1.0", false, []string{"games", "documents"}},
	{"Backup Buddy", "Scheduled folder mirroring with versioning.", "exe", "15 MB", "4.0.2", true, []string{"software", "other"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Up4Down", "data")
	}

	dbPath := filepath.Join(dataPath, "catalog.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	categoryIDs := seedCategories(ctx, s)
	seedItems(ctx, s, rng, categoryIDs)

	fmt.Println("\nSeeding complete!")
}

// seedCategories ensures the default taxonomy exists and returns slug -> id.
func seedCategories(ctx context.Context, s store.Store) map[string]string {
	fmt.Println("\n=== Categories ===")
	ids := make(map[string]string)

	for _, def := range category.Defaults {
		slug := category.Slugify(def.Name)

		if existing, err := s.GetCategoryBySlug(ctx, slug); err == nil {
			ids[slug] = existing.ID
			fmt.Printf("  %s already exists\n", def.Name)
			continue
		}

		c := &domain.Category{Name: def.Name, Slug: slug, Icon: def.Icon}
		c.ID = id.MustGenerate(id.PrefixCategory)
		c.InitTimestamps()

		if err := s.CreateCategory(ctx, c); err != nil {
			log.Printf("  Failed to create category %s: %v", def.Name, err)
			continue
		}
		ids[slug] = c.ID
		fmt.Printf("  Created category: %s\n", def.Name)
	}

	return ids
}

// seedItems creates the sample items with randomized ratings and downloads.
func seedItems(ctx context.Context, s store.Store, rng *rand.Rand, categoryIDs map[string]string) {
	fmt.Println("\n=== Items ===")

	for _, sample := range sampleItems {
		item := &domain.Item{
			Title:       sample.title,
			Description: sample.description,
			DownloadURL: fmt.Sprintf("https://downloads.example.com/%s.%s", category.Slugify(sample.title), sample.fileType),
			FileType:    sample.fileType,
			FileSize:    sample.fileSize,
			Version:     sample.version,
			Featured:    sample.featured,
		}
		item.ID = id.MustGenerate(id.PrefixItem)
		item.InitTimestamps()

		if err := s.CreateItem(ctx, item); err != nil {
			log.Printf("  Failed to create item %s: %v", sample.title, err)
			continue
		}

		var ids []string
		for _, slug := range sample.categories {
			if cid, ok := categoryIDs[slug]; ok {
				ids = append(ids, cid)
			}
		}
		if err := s.SetItemCategories(ctx, item.ID, ids); err != nil {
			log.Printf("  Failed to link categories for %s: %v", sample.title, err)
		}

		// Randomized engagement: 0-30 downloads, 0-8 ratings.
		downloads := rng.Intn(31)
		for range downloads {
			if _, err := s.IncrementDownloadCount(ctx, item.ID); err != nil {
				break
			}
		}

		ratings := rng.Intn(9)
		for range ratings {
			r := &domain.Rating{
				ItemID:  item.ID,
				RaterID: id.MustGenerate(id.PrefixRater),
				Rating:  1 + rng.Intn(5),
			}
			r.ID = id.MustGenerate(id.PrefixRating)
			r.InitTimestamps()
			if _, err := s.CreateRating(ctx, r); err != nil {
				log.Printf("  Failed to rate %s: %v", sample.title, err)
			}
		}

		fmt.Printf("  Created item: %s (%d downloads, %d ratings)\n", sample.title, downloads, ratings)
	}
}
