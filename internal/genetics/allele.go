package genetics

import "fmt"

// Allele is one value a locus can carry. The zero value is not a valid
// allele.
type Allele uint8

const (
	alleleInvalid Allele = iota

	Black    // B
	Brown    // b
	Cinnamon // b'

	Agouti    // A
	NonAgouti // a

	Normal  // D
	Diluted // d

	Spotting   // S
	NoSpotting // s

	Short // L
	Long  // l
)

type alleleInfo struct {
	locus  Locus
	symbol string
	name   string
}

var alleleTable = map[Allele]alleleInfo{
	Black:      {locus: LocusBlackSeries, symbol: "B", name: "black"},
	Brown:      {locus: LocusBlackSeries, symbol: "b", name: "brown"},
	Cinnamon:   {locus: LocusBlackSeries, symbol: "b'", name: "cinnamon"},
	Agouti:     {locus: LocusAgouti, symbol: "A", name: "agouti"},
	NonAgouti:  {locus: LocusAgouti, symbol: "a", name: "non_agouti"},
	Normal:     {locus: LocusDilution, symbol: "D", name: "normal"},
	Diluted:    {locus: LocusDilution, symbol: "d", name: "diluted"},
	Spotting:   {locus: LocusWhiteSpotting, symbol: "S", name: "spotting"},
	NoSpotting: {locus: LocusWhiteSpotting, symbol: "s", name: "no_spotting"},
	Short:      {locus: LocusHairLength, symbol: "L", name: "short"},
	Long:       {locus: LocusHairLength, symbol: "l", name: "long"},
}

func (a Allele) Valid() bool {
	_, ok := alleleTable[a]
	return ok
}

// Locus returns the locus a belongs to. ok is false for invalid alleles.
func (a Allele) Locus() (Locus, bool) {
	info, ok := alleleTable[a]
	return info.locus, ok
}

// BelongsTo reports whether a is declared at locus l.
func (a Allele) BelongsTo(l Locus) bool {
	info, ok := alleleTable[a]
	return ok && info.locus == l
}

// Symbol returns the conventional genetic notation, e.g. "B" or "b'".
func (a Allele) Symbol() string {
	if info, ok := alleleTable[a]; ok {
		return info.symbol
	}
	return "?"
}

// Name returns a stable lowercase identifier such as "non_agouti".
func (a Allele) Name() string {
	if info, ok := alleleTable[a]; ok {
		return info.name
	}
	return fmt.Sprintf("allele(%d)", a)
}

func (a Allele) String() string {
	return a.Symbol()
}

// ParseAllele resolves a symbol ("B", "b'", "a", ...) or name ("cinnamon")
// at locus l.
func ParseAllele(l Locus, value string) (Allele, error) {
	if !l.Valid() {
		return alleleInvalid, fmt.Errorf("%w: locus %d", ErrInvalidAllele, l)
	}
	for _, candidate := range locusTable[l].Ranks {
		info := alleleTable[candidate]
		if info.symbol == value || info.name == value {
			return candidate, nil
		}
	}
	return alleleInvalid, &AlleleError{Locus: l, Value: value}
}
