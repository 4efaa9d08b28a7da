package textnorm

// stopwords is the fixed English function-word set dropped when
// Options.RemoveStopwords is set.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "so": true, "to": true, "of": true, "in": true, "on": true,
	"at": true, "by": true, "for": true, "with": true, "as": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "from": true, "into": true, "about": true,
	"over": true, "after": true, "before": true, "not": true, "no": true,
	"do": true, "does": true, "did": true, "doing": true, "have": true,
	"has": true, "had": true, "having": true, "than": true, "then": true,
	"there": true, "here": true, "such": true, "very": true, "can": true,
	"could": true, "should": true, "would": true, "may": true, "might": true,
	"will": true, "shall": true,
}
