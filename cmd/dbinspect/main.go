// Package main provides a read-only inspection tool for the catalog database.
//
// Usage:
//
//	DATA_PATH=~/Up4Down/data go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/store"
	"github.com/up4down/up4down-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Up4Down", "data")
	}

	dbPath := filepath.Join(dataPath, "catalog.db")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Catalog Inspection ===")
	fmt.Println()

	categories, err := s.ListCategories(ctx)
	if err != nil {
		log.Fatalf("Failed to list categories: %v", err)
	}

	items, err := s.ListItems(ctx, store.ItemFilter{})
	if err != nil {
		log.Fatalf("Failed to list items: %v", err)
	}

	printCategories(ctx, s, categories)
	printItems(ctx, s, items)
	printSummary(ctx, s, categories, items)
}

func printCategories(ctx context.Context, s store.Store, categories []*domain.Category) {
	fmt.Println("=== Categories ===")
	for _, c := range categories {
		items, err := s.ListItems(ctx, store.ItemFilter{CategoryIDs: []string{c.ID}})
		if err != nil {
			log.Printf("Failed to count items for %s: %v", c.Slug, err)
			continue
		}
		fmt.Printf("  %-20s %-20s %d items\n", c.Name, "("+c.Slug+")", len(items))
	}
	fmt.Println()
}

func printItems(ctx context.Context, s store.Store, items []*domain.Item) {
	// Top downloads first.
	sorted := make([]*domain.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DownloadCount > sorted[j].DownloadCount
	})

	fmt.Println("=== Top Items by Downloads ===")
	for i, item := range sorted {
		if i >= 5 {
			fmt.Printf("  ... and %d more items\n", len(sorted)-5)
			break
		}

		categoryIDs, err := s.GetItemCategories(ctx, item.ID)
		if err != nil {
			categoryIDs = nil
		}

		fmt.Printf("  %s\n", item.Title)
		fmt.Printf("    ID: %s\n", item.ID)
		fmt.Printf("    Downloads: %d\n", item.DownloadCount)
		if item.RatingCount > 0 {
			fmt.Printf("    Rating: %.1f (%d votes)\n", item.AverageRating, item.RatingCount)
		}
		fmt.Printf("    Categories: %d\n", len(categoryIDs))
		if item.Script != "" {
			fmt.Printf("    Script: %d bytes\n", len(item.Script))
		}
	}
	fmt.Println()
}

func printSummary(ctx context.Context, s store.Store, categories []*domain.Category, items []*domain.Item) {
	var featured, withScripts, uncategorized int
	var totalDownloads, totalRatings int64

	for _, item := range items {
		if item.Featured {
			featured++
		}
		if item.Script != "" {
			withScripts++
		}
		totalDownloads += item.DownloadCount
		totalRatings += item.RatingCount

		ids, err := s.GetItemCategories(ctx, item.ID)
		if err == nil && len(ids) == 0 {
			uncategorized++
		}
	}

	admins, err := s.CountAdminUsers(ctx)
	if err != nil {
		admins = -1
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Categories: %d\n", len(categories))
	fmt.Printf("Items: %d (featured: %d, with scripts: %d, uncategorized: %d)\n",
		len(items), featured, withScripts, uncategorized)
	fmt.Printf("Total downloads: %d\n", totalDownloads)
	fmt.Printf("Total ratings: %d\n", totalRatings)
	fmt.Printf("Admin users: %d\n", admins)
}
