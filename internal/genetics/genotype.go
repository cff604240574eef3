package genetics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Gene is the diploid pair carried at one locus. Allele1 and Allele2 carry no
// biological order, but the stored order is kept for string keys.
type Gene struct {
	Allele1 Allele
	Allele2 Allele
}

func (g Gene) IsHomozygous() bool {
	return g.Allele1 == g.Allele2
}

func (g Gene) IsHeterozygous() bool {
	return g.Allele1 != g.Allele2
}

// Expressed returns the highest ranked allele of the pair.
func (g Gene) Expressed() Allele {
	l, ok := g.Allele1.Locus()
	if !ok {
		return g.Allele1
	}
	return l.Dominant(g.Allele1, g.Allele2)
}

// IsExpressed reports whether a is present in the pair and not masked by a
// higher ranked allele.
func (g Gene) IsExpressed(a Allele) bool {
	if a != g.Allele1 && a != g.Allele2 {
		return false
	}
	return g.Expressed() == a
}

func (g Gene) String() string {
	return g.Allele1.Symbol() + g.Allele2.Symbol()
}

// Genotype holds one gene per locus. Values are immutable; every valid
// Genotype is built by NewGenotype, FromGenes or ParseGenotype.
type Genotype struct {
	genes [NumLoci]Gene
}

// NewGenotype builds a genotype from allele pairs given in locus order.
func NewGenotype(
	black1, black2 Allele,
	agouti1, agouti2 Allele,
	dilution1, dilution2 Allele,
	spotting1, spotting2 Allele,
	length1, length2 Allele,
) (Genotype, error) {
	return FromGenes([NumLoci]Gene{
		{Allele1: black1, Allele2: black2},
		{Allele1: agouti1, Allele2: agouti2},
		{Allele1: dilution1, Allele2: dilution2},
		{Allele1: spotting1, Allele2: spotting2},
		{Allele1: length1, Allele2: length2},
	})
}

// FromGenes validates genes, indexed by locus, and returns the genotype.
func FromGenes(genes [NumLoci]Gene) (Genotype, error) {
	for _, l := range Loci {
		gene := genes[l]
		if !gene.Allele1.BelongsTo(l) {
			return Genotype{}, alleleError(l, gene.Allele1)
		}
		if !gene.Allele2.BelongsTo(l) {
			return Genotype{}, alleleError(l, gene.Allele2)
		}
	}
	return Genotype{genes: genes}, nil
}

// MustFromGenes is FromGenes for genes already known to be valid.
func MustFromGenes(genes [NumLoci]Gene) Genotype {
	g, err := FromGenes(genes)
	if err != nil {
		panic(err)
	}
	return g
}

// MustParseGenotype is ParseGenotype for literals.
func MustParseGenotype(s string) Genotype {
	g, err := ParseGenotype(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Genotype) Gene(l Locus) Gene {
	if !l.Valid() {
		return Gene{}
	}
	return g.genes[l]
}

func (g Genotype) Genes() [NumLoci]Gene {
	return g.genes
}

// IsZero reports whether g is the zero value, which is not a valid genotype.
func (g Genotype) IsZero() bool {
	return g == Genotype{}
}

// HeterozygousLoci counts loci whose two alleles differ.
func (g Genotype) HeterozygousLoci() int {
	n := 0
	for _, gene := range g.genes {
		if gene.IsHeterozygous() {
			n++
		}
	}
	return n
}

// String renders the canonical key, e.g. "BB Aa DD ss LL".
func (g Genotype) String() string {
	parts := make([]string, 0, NumLoci)
	for _, gene := range g.genes {
		parts = append(parts, gene.String())
	}
	return strings.Join(parts, " ")
}

// ParseGenotype parses the canonical form produced by Genotype.String.
func ParseGenotype(s string) (Genotype, error) {
	groups := strings.Fields(s)
	if len(groups) != NumLoci {
		return Genotype{}, fmt.Errorf("%w: expected %d locus groups, got %d in %q", ErrInvalidGenotype, NumLoci, len(groups), s)
	}

	var genes [NumLoci]Gene
	for _, l := range Loci {
		symbols := splitSymbols(groups[l])
		if len(symbols) != 2 {
			return Genotype{}, fmt.Errorf("%w: locus %s needs two alleles, got %q", ErrInvalidGenotype, l, groups[l])
		}
		a1, err := ParseAllele(l, symbols[0])
		if err != nil {
			return Genotype{}, err
		}
		a2, err := ParseAllele(l, symbols[1])
		if err != nil {
			return Genotype{}, err
		}
		genes[l] = Gene{Allele1: a1, Allele2: a2}
	}
	return FromGenes(genes)
}

// splitSymbols splits "bb'" into ["b", "b'"]. A prime binds to the preceding
// letter.
func splitSymbols(group string) []string {
	var out []string
	for _, r := range group {
		if r == '\'' && len(out) > 0 {
			out[len(out)-1] += "'"
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func (g Genotype) MarshalText() ([]byte, error) {
	if g.IsZero() {
		return nil, fmt.Errorf("%w: zero genotype", ErrInvalidGenotype)
	}
	return []byte(g.String()), nil
}

func (g *Genotype) UnmarshalText(text []byte) error {
	parsed, err := ParseGenotype(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

type geneJSON struct {
	Allele1 string `json:"allele1"`
	Allele2 string `json:"allele2"`
}

type genotypeJSON struct {
	BlackSeries   geneJSON `json:"black_series"`
	Agouti        geneJSON `json:"agouti"`
	Dilution      geneJSON `json:"dilution"`
	WhiteSpotting geneJSON `json:"white_spotting"`
	HairLength    geneJSON `json:"hair_length"`
}

func (j *genotypeJSON) slots() [NumLoci]*geneJSON {
	return [NumLoci]*geneJSON{&j.BlackSeries, &j.Agouti, &j.Dilution, &j.WhiteSpotting, &j.HairLength}
}

// MarshalJSON writes one {allele1, allele2} object per locus.
func (g Genotype) MarshalJSON() ([]byte, error) {
	if g.IsZero() {
		return nil, fmt.Errorf("%w: zero genotype", ErrInvalidGenotype)
	}
	var out genotypeJSON
	for i, slot := range out.slots() {
		slot.Allele1 = g.genes[i].Allele1.Symbol()
		slot.Allele2 = g.genes[i].Allele2.Symbol()
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either the per-locus object form or the canonical
// string form. Both are validated.
func (g *Genotype) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return g.UnmarshalText([]byte(text))
	}

	var in genotypeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGenotype, err)
	}
	var genes [NumLoci]Gene
	for i, slot := range in.slots() {
		l := Loci[i]
		a1, err := ParseAllele(l, slot.Allele1)
		if err != nil {
			return err
		}
		a2, err := ParseAllele(l, slot.Allele2)
		if err != nil {
			return err
		}
		genes[l] = Gene{Allele1: a1, Allele2: a2}
	}
	parsed, err := FromGenes(genes)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
