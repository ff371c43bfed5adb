package bank

// ParserRegistry holds the set of BankParser implementations used by the
// ingestion pipeline. It is an explicit struct constructed once at startup
// rather than a package-level mutable list, so callers can hold independent
// registries (e.g. in tests) without shared global state.
type ParserRegistry struct {
	parsers []BankParser
}

// NewParserRegistry builds the registry with every supported bank parser
// plus the Generic catch-all, which must always be evaluated last so that
// a dedicated bank parser's higher-confidence match wins the arbitration in
// internal/ingestion/pipeline.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		parsers: []BankParser{
			NewHDFC(),
			NewICICI(),
			NewSBI(),
			NewAxis(),
			NewKotak(),
			NewIndusInd(),
			NewYesBank(),
			NewPNB(),
			NewBOB(),
			NewCanara(),
			NewUnionBank(),
			NewIDFC(),
			NewRBL(),
			NewFederal(),
			NewIDBI(),
			NewIndianBank(),
			NewAUSFB(),
			NewBandhan(),
			NewCentralBank(),
			NewBOI(),
			NewGovSchemes(),
			NewGeneric(),
		},
	}
}

// Parsers returns the registered parsers in evaluation priority order.
func (r *ParserRegistry) Parsers() []BankParser {
	return r.parsers
}

// Register appends an additional parser ahead of Generic, preserving
// Generic's role as the final fallback.
func (r *ParserRegistry) Register(p BankParser) {
	n := len(r.parsers)
	if n == 0 {
		r.parsers = append(r.parsers, p)
		return
	}
	r.parsers = append(r.parsers[:n-1], p, r.parsers[n-1])
}
