package domain

import "encoding/json"

// Item is a downloadable catalog entry.
//
// Rating aggregates (AverageRating, RatingCount) and DownloadCount are
// maintained by the store; application code only ever reads them.
type Item struct {
	Record
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Thumbnail holds either a single image URL or a JSON-encoded array
	// of URLs. Legacy single-URL records and multi-URL records coexist
	// with no discriminator; use Thumbnails to decode.
	Thumbnail     string  `json:"thumbnail,omitempty"`
	DownloadURL   string  `json:"download_url"`
	FileType      string  `json:"file_type"` // e.g. "apk", "exe", "pdf"
	FileSize      string  `json:"file_size,omitempty"`
	Version       string  `json:"version,omitempty"`
	DownloadCount int64   `json:"download_count"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
	Featured      bool    `json:"featured"`
	// Script is optional operator-authored source run by the sandbox
	// when a download is triggered.
	Script string `json:"script,omitempty"`
}

// Thumbnails decodes the thumbnail field into an ordered list of URLs.
// A JSON array parse is attempted first; on failure the raw value is
// treated as a single URL. This fallback is load-bearing: legacy records
// store a bare URL in the same column as newer JSON-array records.
func (i *Item) Thumbnails() []string {
	if i.Thumbnail == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(i.Thumbnail), &urls); err == nil {
		return urls
	}
	return []string{i.Thumbnail}
}

// PrimaryThumbnail returns the first thumbnail URL, or "" if none.
func (i *Item) PrimaryThumbnail() string {
	urls := i.Thumbnails()
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
