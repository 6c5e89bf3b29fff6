package schools

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"schoolctl/models"
)

// searchThreshold is the widest normalized edit distance still counted
// as a match. Wide enough to survive a typo or two, narrow enough to
// keep unrelated schools out.
const searchThreshold = 0.4

// Search ranks schools by approximate similarity of the query against
// name and id, most similar first. An empty or whitespace query returns
// the input unchanged. A school containing the query as a substring
// always ranks at or above fuzzy-only matches.
func Search(schoolList []models.School, query string) []models.School {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return schoolList
	}

	type ranked struct {
		school   models.School
		distance float64
	}
	matches := make([]ranked, 0, len(schoolList))
	for _, school := range schoolList {
		d := bestDistance(query, school)
		if d <= searchThreshold {
			matches = append(matches, ranked{school: school, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]models.School, len(matches))
	for i, m := range matches {
		result[i] = m.school
	}
	return result
}

// bestDistance is the smallest normalized distance between the query
// and any candidate string of the school. Substring containment counts
// as distance zero, so where the match sits inside the name does not
// matter.
func bestDistance(query string, school models.School) float64 {
	best := 1.0
	for _, candidate := range candidates(school) {
		if strings.Contains(candidate, query) {
			return 0
		}
		if d := normalizedDistance(query, candidate); d < best {
			best = d
		}
	}
	return best
}

// candidates lists the strings a query is compared against: the id, the
// full name, and each word of the name on its own.
func candidates(school models.School) []string {
	name := strings.ToLower(school.Name)
	out := []string{strings.ToLower(school.ID), name}
	for _, word := range strings.Fields(name) {
		out = append(out, word)
	}
	return out
}

func normalizedDistance(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
