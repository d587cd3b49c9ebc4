package services

// stopwords holds Spanish and English function words that carry no meaning in
// a word cloud of attraction reviews.
var stopwords = map[string]struct{}{
	// Spanish articles and contractions
	"el": {}, "la": {}, "los": {}, "las": {}, "un": {}, "una": {}, "unos": {}, "unas": {},
	"al": {}, "del": {}, "lo": {},
	// Spanish prepositions
	"a": {}, "ante": {}, "bajo": {}, "con": {}, "contra": {}, "de": {}, "desde": {},
	"en": {}, "entre": {}, "hacia": {}, "hasta": {}, "para": {}, "por": {}, "según": {},
	"sin": {}, "sobre": {}, "tras": {},
	// Spanish conjunctions
	"y": {}, "e": {}, "o": {}, "u": {}, "ni": {}, "pero": {}, "sino": {}, "que": {},
	"porque": {}, "como": {}, "cuando": {}, "si": {}, "aunque": {}, "pues": {},
	// Spanish pronouns and determiners
	"yo": {}, "tú": {}, "él": {}, "ella": {}, "nosotros": {}, "ellos": {}, "ellas": {},
	"me": {}, "te": {}, "se": {}, "nos": {}, "le": {}, "les": {}, "mi": {}, "mis": {},
	"su": {}, "sus": {}, "este": {}, "esta": {}, "esto": {}, "estos": {}, "estas": {},
	"ese": {}, "esa": {}, "eso": {}, "esos": {}, "esas": {}, "aquí": {}, "allí": {},
	"muy": {}, "más": {}, "mas": {}, "ya": {}, "no": {}, "sí": {}, "también": {},
	"todo": {}, "toda": {}, "todos": {}, "todas": {}, "otro": {}, "otra": {},
	// Spanish auxiliaries and very frequent verbs
	"es": {}, "son": {}, "fue": {}, "ser": {}, "estar": {}, "está": {}, "están": {},
	"hay": {}, "ha": {}, "han": {}, "haber": {}, "tener": {}, "tiene": {}, "hacer": {},
	"ir": {}, "poder": {},
	// English function words
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "is": {}, "it": {}, "for": {},
	"was": {}, "on": {}, "with": {}, "this": {}, "that": {}, "are": {}, "you": {},
	"but": {}, "not": {}, "be": {}, "at": {}, "we": {}, "they": {}, "very": {},
}
