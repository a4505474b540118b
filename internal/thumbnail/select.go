package thumbnail

import (
	"errors"
	"sort"
	"strings"

	"github.com/ytmgrab/ytmgrab/internal/model"
)

// ErrNoThumbnail is returned when the extractor reported no cover image
// candidates at all. Callers treat this as a soft failure and proceed
// without embedding a cover.
var ErrNoThumbnail = errors.New("no thumbnail available")

// DefaultLabelPriority returns the default resolution-label preference used
// to break area ties, best first. The list is configurable data: callers may
// supply their own ordering to SelectBest.
func DefaultLabelPriority() []string {
	return []string{
		"maxresdefault",
		"maxres",
		"hq720",
		"sddefault",
		"hqdefault",
		"mqdefault",
		"default",
	}
}

// SelectBest picks the best cover image candidate.
//
// Candidates are ordered by area (width × height) descending. Candidates
// with equal area, including those with no reported dimensions, are ordered
// by the given label priority, matched case-insensitively against the
// candidate's ID and URL. A nil priority selects DefaultLabelPriority.
//
// Returns ErrNoThumbnail when candidates is empty.
//
// Example:
//
//	best, err := thumbnail.SelectBest(candidates, nil)
//	if errors.Is(err, thumbnail.ErrNoThumbnail) {
//	    // proceed without cover art
//	}
func SelectBest(candidates []model.Thumbnail, priority []string) (model.Thumbnail, error) {
	if len(candidates) == 0 {
		return model.Thumbnail{}, ErrNoThumbnail
	}
	if priority == nil {
		priority = DefaultLabelPriority()
	}

	sorted := make([]model.Thumbnail, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Area() != sorted[j].Area() {
			return sorted[i].Area() > sorted[j].Area()
		}
		return labelRank(sorted[i], priority) < labelRank(sorted[j], priority)
	})

	return sorted[0], nil
}

// labelRank returns the candidate's position in the priority list, or
// len(priority) when no label matches.
func labelRank(t model.Thumbnail, priority []string) int {
	id := strings.ToLower(t.ID)
	url := strings.ToLower(t.URL)
	for i, label := range priority {
		if strings.Contains(id, label) || strings.Contains(url, label) {
			return i
		}
	}
	return len(priority)
}
