// Package normalize canonicalizes free text for matching. Every equality or
// substring comparison in the resolver and reconciler goes through Normalize
// on both sides; comparing a normalized value against a raw one is a
// correctness bug.
package normalize

import "strings"

// Normalize lower-cases, strips `, . - / :`, and collapses runs of spaces to
// a single space. Idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range strings.ToLower(s) {
		switch r {
		case ',', '.', '-', '/', ':':
			continue
		case ' ':
			if lastSpace {
				continue
			}
			lastSpace = true
			b.WriteRune(r)
		default:
			lastSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StateCode returns the two-letter code for a normalized full state name, or
// "" when the name is unknown. The table covers the 50 states, DC, and the
// five territories plus the freely associated states the providers report.
func StateCode(name string) string {
	return usStates[name]
}

// PartyName expands a short party code to its full name, or returns the
// input unchanged when it is not a known code.
func PartyName(code string) string {
	if name, ok := partyNames[code]; ok {
		return name
	}
	return code
}

var partyNames = map[string]string{
	"DEM": "Democratic",
	"GRE": "Green",
	"IND": "Independent",
	"LIB": "Libertarian",
	"REP": "Republican",
}

var usStates = map[string]string{
	"alabama":                        "al",
	"alaska":                         "ak",
	"american samoa":                 "as",
	"arizona":                        "az",
	"arkansas":                       "ar",
	"california":                     "ca",
	"colorado":                       "co",
	"connecticut":                    "ct",
	"delaware":                       "de",
	"district of columbia":           "dc",
	"federated states of micronesia": "fm",
	"florida":                        "fl",
	"georgia":                        "ga",
	"guam":                           "gu",
	"hawaii":                         "hi",
	"idaho":                          "id",
	"illinois":                       "il",
	"indiana":                        "in",
	"iowa":                           "ia",
	"kansas":                         "ks",
	"kentucky":                       "ky",
	"louisiana":                      "la",
	"maine":                          "me",
	"marshall islands":               "mh",
	"maryland":                       "md",
	"massachusetts":                  "ma",
	"michigan":                       "mi",
	"minnesota":                      "mn",
	"mississippi":                    "ms",
	"missouri":                       "mo",
	"montana":                        "mt",
	"nebraska":                       "ne",
	"nevada":                         "nv",
	"new hampshire":                  "nh",
	"new jersey":                     "nj",
	"new mexico":                     "nm",
	"new york":                       "ny",
	"north carolina":                 "nc",
	"north dakota":                   "nd",
	"northern mariana islands":       "mp",
	"ohio":                           "oh",
	"oklahoma":                       "ok",
	"oregon":                         "or",
	"palau":                          "pw",
	"pennsylvania":                   "pa",
	"puerto rico":                    "pr",
	"rhode island":                   "ri",
	"south carolina":                 "sc",
	"south dakota":                   "sd",
	"tennessee":                      "tn",
	"texas":                          "tx",
	"utah":                           "ut",
	"vermont":                        "vt",
	"virgin islands":                 "vi",
	"virginia":                       "va",
	"washington":                     "wa",
	"west virginia":                  "wv",
	"wisconsin":                      "wi",
	"wyoming":                        "wy",
}
