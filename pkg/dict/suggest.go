package dict

import "github.com/agnivade/levenshtein"

// suggestLimit is the largest edit distance at which a definition is offered
// as a likely misspelling of id.
func suggestLimit(id string) int {
	return min(max(len(id)/3, 1), 3)
}

// SuggestElement returns the canonical element identifier closest to id by
// edit distance, when one is close enough to be a likely misspelling.
func (d *Dictionary) SuggestElement(id string) (string, bool) {
	return suggest(id, d.ElementIDs())
}

// SuggestObject is SuggestElement for object identifiers.
func (d *Dictionary) SuggestObject(id string) (string, bool) {
	return suggest(id, d.ObjectIDs())
}

// suggest picks the closest candidate; ties go to the first in order.
func suggest(id string, candidates []string) (string, bool) {
	best, bestDist := "", suggestLimit(id)+1
	for _, c := range candidates {
		if dist := levenshtein.ComputeDistance(id, c); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best, best != ""
}
