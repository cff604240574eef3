package cross

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JKrag/punnett-simulator/internal/genetics"
)

var ErrInvalidGamete = errors.New("invalid gamete")

// Gamete is one haploid contribution of a parent: one allele per locus.
type Gamete struct {
	alleles [genetics.NumLoci]genetics.Allele
}

func (g Gamete) Allele(l genetics.Locus) genetics.Allele {
	if !l.Valid() {
		return 0
	}
	return g.alleles[l]
}

func (g Gamete) Alleles() [genetics.NumLoci]genetics.Allele {
	return g.alleles
}

// String concatenates the allele symbols in locus order, e.g. "BADsL".
func (g Gamete) String() string {
	var b strings.Builder
	for _, a := range g.alleles {
		b.WriteString(a.Symbol())
	}
	return b.String()
}

func (g Gamete) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gamete) UnmarshalText(text []byte) error {
	parsed, err := ParseGamete(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGamete parses the form produced by Gamete.String.
func ParseGamete(s string) (Gamete, error) {
	var symbols []string
	for _, r := range strings.TrimSpace(s) {
		if r == '\'' && len(symbols) > 0 {
			symbols[len(symbols)-1] += "'"
			continue
		}
		symbols = append(symbols, string(r))
	}
	if len(symbols) != genetics.NumLoci {
		return Gamete{}, fmt.Errorf("%w: expected %d alleles in %q", ErrInvalidGamete, genetics.NumLoci, s)
	}

	var g Gamete
	for i, l := range genetics.Loci {
		a, err := genetics.ParseAllele(l, symbols[i])
		if err != nil {
			return Gamete{}, err
		}
		g.alleles[l] = a
	}
	return g, nil
}

// Gametes enumerates the distinct gametes parent can produce. Loci are
// iterated in declaration order with the black series outermost, and the
// first occurrence of each gamete wins, so the result has exactly
// 2^HeterozygousLoci entries in a reproducible order.
func Gametes(parent genetics.Genotype) []Gamete {
	partials := []Gamete{{}}
	for _, l := range genetics.Loci {
		gene := parent.Gene(l)
		options := [2]genetics.Allele{gene.Allele1, gene.Allele2}

		next := make([]Gamete, 0, len(partials)*len(options))
		for _, p := range partials {
			for _, a := range options {
				g := p
				g.alleles[l] = a
				next = append(next, g)
			}
		}
		partials = next
	}
	return dedupeGametes(partials)
}

func dedupeGametes(gametes []Gamete) []Gamete {
	seen := make(map[Gamete]struct{}, len(gametes))
	out := make([]Gamete, 0, len(gametes))
	for _, g := range gametes {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// Combine fuses two gametes into a zygote. a supplies Allele1 and b supplies
// Allele2 at every locus. Both gametes must come from valid genotypes.
func Combine(a, b Gamete) genetics.Genotype {
	var genes [genetics.NumLoci]genetics.Gene
	for _, l := range genetics.Loci {
		genes[l] = genetics.Gene{Allele1: a.alleles[l], Allele2: b.alleles[l]}
	}
	return genetics.MustFromGenes(genes)
}
