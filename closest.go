package clish

// levenshtein computes the edit distance between str and tgt, used to
// build "did you mean" suggestions for UnknownCommand diagnostics
// (spec.md §7).
func levenshtein(str string, tgt string) int {
	if len(str) == 0 {
		return len(tgt)
	}

	if len(tgt) == 0 {
		return len(str)
	}

	dists := make([][]int, len(str)+1)
	for i := range dists {
		dists[i] = make([]int, len(tgt)+1)
		dists[i][0] = i
	}

	for j := range dists[0] {
		dists[0][j] = j
	}

	for sidx, sc := range str {
		for tidx, tc := range tgt {
			if sc == tc {
				dists[sidx+1][tidx+1] = dists[sidx][tidx]
			} else {
				dists[sidx+1][tidx+1] = dists[sidx][tidx] + 1
				if dists[sidx+1][tidx] < dists[sidx+1][tidx+1] {
					dists[sidx+1][tidx+1] = dists[sidx+1][tidx] + 1
				}
				if dists[sidx][tidx+1] < dists[sidx+1][tidx+1] {
					dists[sidx+1][tidx+1] = dists[sidx][tidx+1] + 1
				}
			}
		}
	}

	return dists[len(str)][len(tgt)]
}

// minDistanceClosest is the normalized edit-distance ratio
// (distance / len(closest)) below which a suggestion is considered
// close enough to offer as "did you mean"; a ratio equal to it is not.
const minDistanceClosest = 0.4

// closestChoice returns the choice with the smallest edit distance to
// cmd, and that distance.
func closestChoice(cmd string, choices []string) (string, int) {
	if len(choices) == 0 {
		return "", 0
	}

	mincmd := -1
	mindist := -1

	for i, c := range choices {
		l := levenshtein(cmd, c)

		if mincmd < 0 || l < mindist {
			mindist = l
			mincmd = i
		}
	}

	return choices[mincmd], mindist
}

// suggestCommand builds a "did you mean" suffix for an UnknownCommand
// diagnostic, or "" when no candidate is close enough.
func suggestCommand(typed string, candidates []*Command) string {
	if len(candidates) == 0 {
		return ""
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	closest, dist := closestChoice(typed, names)
	if closest == "" {
		return ""
	}

	if ratio := float32(dist) / float32(len(closest)); ratio < minDistanceClosest {
		return closest
	}

	return ""
}
