// Package catalog derives the filtered, sorted, searched views of the media
// library that the picker and admin screens render. The view functions are
// pure; fetching lives in Client.
package catalog

import (
	"sort"
	"strings"

	"github.com/craftfolio/cms/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type TypeFilter string

const (
	TypeAll       TypeFilter = "all"
	TypeImages    TypeFilter = "images"
	TypeVideos    TypeFilter = "videos"
	TypeDocuments TypeFilter = "documents"
)

type SortKey string

const (
	SortDate SortKey = "date"
	SortName SortKey = "name"
	SortSize SortKey = "size"
)

type Query struct {
	Type   TypeFilter
	Search string
}

// ValidURL reports whether an asset URL is renderable: root-relative or
// absolute http(s). Assets failing this never appear in any view.
func ValidURL(u string) bool {
	return strings.HasPrefix(u, "/") ||
		strings.HasPrefix(u, "http://") ||
		strings.HasPrefix(u, "https://")
}

// Filter narrows assets by mime class and a case-insensitive substring
// search over original name OR stored filename. Invalid-URL assets are
// dropped before anything else.
func Filter(assets []models.MediaAsset, q Query) []models.MediaAsset {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.MediaAsset, 0, len(assets))
	for _, a := range assets {
		if !ValidURL(a.URL) {
			continue
		}

		switch q.Type {
		case TypeImages:
			if !strings.HasPrefix(a.MimeType, "image/") {
				continue
			}
		case TypeVideos:
			if !strings.HasPrefix(a.MimeType, "video/") {
				continue
			}
		case TypeDocuments:
			if strings.HasPrefix(a.MimeType, "image/") || strings.HasPrefix(a.MimeType, "video/") {
				continue
			}
		}

		if term != "" {
			if !strings.Contains(strings.ToLower(a.OriginalName), term) &&
				!strings.Contains(strings.ToLower(a.FileName), term) {
				continue
			}
		}

		out = append(out, a)
	}
	return out
}

// Sort returns a sorted copy. date = newest first, name = locale-aware
// ascending on original name, size = largest first. Stable: ties keep the
// input order.
func Sort(assets []models.MediaAsset, key SortKey) []models.MediaAsset {
	out := append([]models.MediaAsset(nil), assets...)

	switch key {
	case SortName:
		cl := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return cl.CompareString(out[i].OriginalName, out[j].OriginalName) < 0
		})
	case SortSize:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Size > out[j].Size
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		})
	}

	return out
}
