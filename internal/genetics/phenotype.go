package genetics

import "fmt"

const whiteSpotsSuffix = " with white spots"

// PhenotypeKey is the expressed allele at every locus. Two genotypes with the
// same key look the same.
type PhenotypeKey [NumLoci]Allele

// Phenotype is the observable expression of a genotype.
type Phenotype struct {
	Key         PhenotypeKey `json:"-"`
	BaseColor   string       `json:"base_color"`
	Pattern     string       `json:"pattern"`
	Dilution    string       `json:"dilution"`
	Spotting    string       `json:"spotting"`
	HairLength  string       `json:"hair_length"`
	Description string       `json:"description"`
}

// HasWhiteSpots reports whether the spotting allele is expressed.
func (p Phenotype) HasWhiteSpots() bool {
	return p.Key[LocusWhiteSpotting] == Spotting
}

// Phenotype resolves dominance at each locus independently.
func (g Genotype) Phenotype() Phenotype {
	var key PhenotypeKey
	for _, l := range Loci {
		key[l] = g.genes[l].Expressed()
	}
	return key.Phenotype()
}

// Phenotype renders the labels and description for k. The description is
// only ever built here.
func (k PhenotypeKey) Phenotype() Phenotype {
	p := Phenotype{
		Key:        k,
		BaseColor:  traitLabel(k[LocusBlackSeries]),
		Pattern:    traitLabel(k[LocusAgouti]),
		Dilution:   traitLabel(k[LocusDilution]),
		Spotting:   traitLabel(k[LocusWhiteSpotting]),
		HairLength: traitLabel(k[LocusHairLength]),
	}
	p.Description = fmt.Sprintf("%s %s %s with %s hair%s", p.Dilution, p.BaseColor, p.Pattern, p.HairLength, p.Spotting)
	return p
}

func (k PhenotypeKey) String() string {
	return k.Phenotype().Description
}

func traitLabel(a Allele) string {
	switch a {
	case Black:
		return "Black"
	case Brown:
		return "Brown"
	case Cinnamon:
		return "Cinnamon"
	case Agouti:
		return "Tabby"
	case NonAgouti:
		return "Solid"
	case Normal:
		return "Normal"
	case Diluted:
		return "Diluted"
	case Spotting:
		return whiteSpotsSuffix
	case NoSpotting:
		return ""
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// PhenotypeKeys enumerates every key the model can express, in locus rank
// order.
func PhenotypeKeys() []PhenotypeKey {
	keys := []PhenotypeKey{{}}
	for _, l := range Loci {
		ranks := locusTable[l].Ranks
		next := make([]PhenotypeKey, 0, len(keys)*len(ranks))
		for _, partial := range keys {
			for _, a := range ranks {
				k := partial
				k[l] = a
				next = append(next, k)
			}
		}
		keys = next
	}
	return keys
}
