package genetics

import "fmt"

// Locus identifies one of the modeled gene positions.
type Locus uint8

const (
	LocusBlackSeries Locus = iota
	LocusAgouti
	LocusDilution
	LocusWhiteSpotting
	LocusHairLength
)

// NumLoci is the number of loci in a genotype.
const NumLoci = 5

// Loci lists every locus in declaration order. Gamete enumeration and string
// forms follow this order.
var Loci = [NumLoci]Locus{LocusBlackSeries, LocusAgouti, LocusDilution, LocusWhiteSpotting, LocusHairLength}

// LocusInfo describes a locus: its name and its alleles ranked from most to
// least dominant.
type LocusInfo struct {
	Locus Locus
	Name  string
	Ranks []Allele
}

var locusTable = [NumLoci]LocusInfo{
	{Locus: LocusBlackSeries, Name: "black_series", Ranks: []Allele{Black, Brown, Cinnamon}},
	{Locus: LocusAgouti, Name: "agouti", Ranks: []Allele{Agouti, NonAgouti}},
	{Locus: LocusDilution, Name: "dilution", Ranks: []Allele{Normal, Diluted}},
	{Locus: LocusWhiteSpotting, Name: "white_spotting", Ranks: []Allele{Spotting, NoSpotting}},
	{Locus: LocusHairLength, Name: "hair_length", Ranks: []Allele{Short, Long}},
}

func (l Locus) Valid() bool {
	return int(l) < NumLoci
}

// Info returns the descriptor for l. It panics for an undeclared locus.
func (l Locus) Info() LocusInfo {
	if !l.Valid() {
		panic(fmt.Sprintf("genetics: unknown locus %d", l))
	}
	info := locusTable[l]
	info.Ranks = append([]Allele(nil), info.Ranks...)
	return info
}

func (l Locus) String() string {
	if !l.Valid() {
		return fmt.Sprintf("locus(%d)", l)
	}
	return locusTable[l].Name
}

// Alleles returns the alleles of l, most dominant first.
func (l Locus) Alleles() []Allele {
	return l.Info().Ranks
}

// Rank reports the dominance position of a at l, 0 being the most dominant.
// ok is false when a does not belong to l.
func (l Locus) Rank(a Allele) (rank int, ok bool) {
	if !l.Valid() {
		return 0, false
	}
	for i, candidate := range locusTable[l].Ranks {
		if candidate == a {
			return i, true
		}
	}
	return 0, false
}

// Dominant returns whichever of a and b is expressed over the other at l.
func (l Locus) Dominant(a, b Allele) Allele {
	ra, _ := l.Rank(a)
	rb, _ := l.Rank(b)
	if rb < ra {
		return b
	}
	return a
}

// ParseLocus resolves a locus by name, e.g. "black_series".
func ParseLocus(name string) (Locus, bool) {
	for _, info := range locusTable {
		if info.Name == name {
			return info.Locus, true
		}
	}
	return 0, false
}
