package matcher

// Score ranks a match. It is never negative and higher is always better,
// whichever source produced it.
type Score int64

// Raw scores arrive on different scales and are converted here before a
// suggestion is built:
//
//   - sahilm/fuzzy scores grow with match quality but go negative for long
//     haystacks (one point lost per unmatched byte). They are shifted up by
//     fuzzyBias and clamped at zero.
//   - symbol table distances are edit distances, so lower is better. They are
//     subtracted from distanceCeiling and clamped at zero.
//   - prefix matches score prefixBase plus the matched length in runes.
const (
	fuzzyBias       = 1 << 10
	distanceCeiling = 1 << 10
	prefixBase      = 1 << 10
)

// FromFuzzy converts a sahilm/fuzzy score.
func FromFuzzy(raw int) Score {
	return clamp(int64(raw) + fuzzyBias)
}

// FromDistance converts an edit distance, where lower is better.
func FromDistance(distance int) Score {
	return clamp(distanceCeiling - int64(distance))
}

// FromPrefixLength converts the length of a prefix match.
func FromPrefixLength(n int) Score {
	return clamp(prefixBase + int64(n))
}

func clamp(v int64) Score {
	if v < 0 {
		return 0
	}
	return Score(v)
}
