package arxiv

import "sort"

// knownCategories ist das feste Vokabular der arXiv-Kategorien, die
// abgefragt werden dürfen.
var knownCategories = map[string]struct{}{}

func init() {
	groups := map[string][]string{
		"cs": {"AI", "AR", "CC", "CE", "CG", "CL", "CR", "CV", "CY", "DB", "DC", "DL", "DM", "DS",
			"ET", "FL", "GL", "GR", "GT", "HC", "IR", "IT", "LG", "LO", "MA", "MM", "MS", "NA", "NE",
			"NI", "OH", "OS", "PF", "PL", "RO", "SC", "SD", "SE", "SI", "SY"},
		"math": {"AC", "AG", "AP", "AT", "CA", "CO", "CT", "CV", "DG", "DS", "FA", "GM", "GN", "GR",
			"GT", "HO", "IT", "KT", "LO", "MG", "MP", "NA", "NT", "OA", "OC", "PR", "QA", "RA", "RT",
			"SG", "SP", "ST"},
		"q-fin":    {"CP", "EC", "GN", "MF", "PM", "PR", "RM", "ST", "TR"},
		"q-bio":    {"BM", "CB", "GN", "MN", "NC", "OT", "PE", "QM", "SC", "TO"},
		"nlin":     {"AO", "CD", "CG", "PS", "SI"},
		"econ":     {"EM", "GN", "TH"},
		"eess":     {"AS", "IV", "SP", "SY"},
		"astro-ph": {"CO", "EP", "GA", "HE", "IM", "SR"},
		"stat":     {"AP", "CO", "ME", "ML", "OT", "TH"},
		"cond-mat": {"dis-nn", "mes-hall", "mtrl-sci", "other", "quant-gas", "soft", "stat-mech",
			"str-el", "supr-con"},
		"physics": {"acc-ph", "ao-ph", "app-ph", "atm-clus", "atom-ph", "bio-ph", "chem-ph",
			"class-ph", "comp-ph", "data-an", "ed-ph", "flu-dyn", "gen-ph", "geo-ph", "hist-ph",
			"ins-det", "med-ph", "optics", "plasm-ph", "pop-ph", "soc-ph", "space-ph"},
	}
	for archive, subjects := range groups {
		for _, s := range subjects {
			knownCategories[archive+"."+s] = struct{}{}
		}
	}
	// Archive ohne Unterkategorien
	for _, c := range []string{"gr-qc", "hep-ex", "hep-lat", "hep-ph", "hep-th", "math-ph", "nucl-ex", "nucl-th", "quant-ph"} {
		knownCategories[c] = struct{}{}
	}
}

// IsKnownCategory prüft, ob category im Vokabular enthalten ist (case-sensitiv).
func IsKnownCategory(category string) bool {
	_, ok := knownCategories[category]
	return ok
}

// Categories gibt alle bekannten Kategorien sortiert zurück.
func Categories() []string {
	out := make([]string, 0, len(knownCategories))
	for c := range knownCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
