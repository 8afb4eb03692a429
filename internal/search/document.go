// Package search provides full-text search functionality using Bleve.
// It powers the catalog's search suggestions with substring and prefix
// matching over item titles.
package search

import (
	"strings"

	"github.com/up4down/up4down-server/internal/domain"
)

// Document is the structure indexed for each catalog item.
//
// Design note: titles are indexed twice. The "title" field uses the English
// analyzer for tokenized matching, and "title_exact" holds the lowercased
// title as a single keyword term so wildcard queries can match substrings
// anywhere in the title, including across word boundaries.
type Document struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TitleExact string `json:"title_exact"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Featured   bool   `json:"featured"`

	// Timestamps for sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"title":       d.Title,
		"title_exact": d.TitleExact,
		"featured":    d.Featured,
		"created_at":  d.CreatedAt,
	}
	if d.Thumbnail != "" {
		m["thumbnail"] = d.Thumbnail
	}
	return m
}

// ItemToDocument converts a domain Item to an indexable Document.
func ItemToDocument(item *domain.Item) *Document {
	return &Document{
		ID:         item.ID,
		Title:      item.Title,
		TitleExact: strings.ToLower(item.Title),
		Thumbnail:  item.PrimaryThumbnail(),
		Featured:   item.Featured,
		CreatedAt:  item.CreatedAt.UnixMilli(),
	}
}
