package categorization

// defaultStopWords are German and English articles, conjunctions, and
// prepositions that never become learned keywords. The list is a default;
// callers can supply their own through Config.
var defaultStopWords = []string{
	// German articles and pronouns
	"der", "die", "das", "den", "dem", "des",
	"ein", "eine", "einen", "einem", "einer", "eines",
	"ich", "sie", "wir", "ihr",
	// German conjunctions
	"und", "oder", "aber", "denn", "sowie", "auch",
	// German prepositions
	"an", "am", "auf", "aus", "bei", "bis", "durch", "für", "fuer",
	"gegen", "im", "in", "mit", "nach", "ohne", "um", "unter",
	"über", "ueber", "von", "vom", "vor", "zu", "zum", "zur",
	// German verbs/particles common in payment purposes
	"ist", "sind", "war", "nicht", "kein", "keine",
	// English articles and conjunctions
	"the", "a", "an", "and", "or", "but", "not",
	// English prepositions
	"at", "by", "for", "from", "of", "on", "to", "with", "via",
}

func stopWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
