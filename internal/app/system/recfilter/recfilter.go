// Package recfilter holds the pure aggregation logic over a group's
// recommendations: genre filtering, the shared-vs-individual partition,
// and genre catalog derivation. It never touches the database; callers
// load recommendations first and filter in memory.
package recfilter

import (
	"sort"
	"strings"

	"github.com/reelhub/reelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partition is the result of splitting a recommendation list against a
// selected-user set.
//
//   - Combined: every selected user recommended the movie
//     (recommended_by ⊇ selected).
//   - Individual: at least one selected user recommended it, but not all.
//
// Recommendations disjoint from the selection are excluded, so for a
// non-empty selection every genre-filtered recommendation lands in
// exactly one of {Combined, Individual, excluded}.
type Partition struct {
	Combined   []models.Recommendation
	Individual []models.Recommendation
}

// Split applies the genre filter, then partitions by the selected-user
// set. An empty selection means "no user filter": everything
// genre-filtered goes to Individual and Combined stays empty — there is
// no implicit all-members aggregation.
func Split(recs []models.Recommendation, selected []primitive.ObjectID, genre string) Partition {
	var p Partition

	sel := make(map[primitive.ObjectID]struct{}, len(selected))
	for _, id := range selected {
		sel[id] = struct{}{}
	}

	for _, rec := range recs {
		if !MatchesGenre(rec.Movie.Genre, genre) {
			continue
		}
		if len(sel) == 0 {
			p.Individual = append(p.Individual, rec)
			continue
		}

		have := rec.RecommendedBySet()
		superset := true
		intersects := false
		for id := range sel {
			if _, ok := have[id]; ok {
				intersects = true
			} else {
				superset = false
			}
		}

		switch {
		case superset:
			p.Combined = append(p.Combined, rec)
		case intersects:
			p.Individual = append(p.Individual, rec)
		}
	}

	return p
}

// MatchesGenre reports whether the comma-joined genre string ("Crime,
// Drama") contains the wanted genre as an exact token, compared
// case-insensitively after trimming. An empty want matches everything.
func MatchesGenre(genres, want string) bool {
	if want == "" {
		return true
	}
	for _, g := range strings.Split(genres, ",") {
		if strings.EqualFold(strings.TrimSpace(g), strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Genres returns the sorted, de-duplicated genre tokens across the given
// recommendations, for populating a filter control.
func Genres(recs []models.Recommendation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range recs {
		for _, g := range strings.Split(rec.Movie.Genre, ",") {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
