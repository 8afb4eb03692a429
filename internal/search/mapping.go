package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for item documents.
//
// The mapping is designed with these priorities:
//  1. Tokenized full-text matching on titles with English stemming
//  2. A keyword copy of the title for wildcard substring and prefix queries
//  3. Stored thumbnail so suggestions render without a store round-trip
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - tokenized search target.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Lowercased title as a single keyword term, for substring matching.
	titleExactFieldMapping := bleve.NewTextFieldMapping()
	titleExactFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("title_exact", titleExactFieldMapping)

	// ID - stored but not analyzed.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Thumbnail - stored for display, never searched.
	thumbnailFieldMapping := bleve.NewTextFieldMapping()
	thumbnailFieldMapping.Analyzer = keyword.Name
	thumbnailFieldMapping.Store = true
	thumbnailFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("thumbnail", thumbnailFieldMapping)

	// Featured flag.
	featuredFieldMapping := bleve.NewBooleanFieldMapping()
	featuredFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("featured", featuredFieldMapping)

	// Timestamp for recency sorting.
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
