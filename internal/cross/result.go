package cross

import (
	"fmt"
	"sort"

	"github.com/JKrag/punnett-simulator/internal/genetics"
)

type GenotypeCount struct {
	Genotype genetics.Genotype `json:"genotype"`
	Count    int               `json:"count"`
}

type PhenotypeStat struct {
	Phenotype  genetics.Phenotype `json:"phenotype"`
	Count      int                `json:"count"`
	Percentage float64            `json:"percentage"`
}

// Result aggregates every offspring of one parent x parent cross.
type Result struct {
	Parent1Gametes []Gamete `json:"parent1_gametes"`
	Parent2Gametes []Gamete `json:"parent2_gametes"`

	// Genotypes is keyed by genotype string. GenotypeOrder lists the keys in
	// first-seen order.
	Genotypes     map[string]GenotypeCount `json:"genotypes"`
	GenotypeOrder []string                 `json:"genotype_order"`

	// Phenotypes is keyed by phenotype description. PhenotypeOrder lists the
	// keys in first-seen order.
	Phenotypes     map[string]PhenotypeStat `json:"phenotypes"`
	PhenotypeOrder []string                 `json:"phenotype_order"`

	TotalCount int `json:"total_count"`
}

// Cross crosses every gamete of parent1 (outer loop) with every gamete of
// parent2 (inner loop) and aggregates the offspring.
func Cross(parent1, parent2 genetics.Genotype) Result {
	g1 := Gametes(parent1)
	g2 := Gametes(parent2)

	res := Result{
		Parent1Gametes: g1,
		Parent2Gametes: g2,
		Genotypes:      make(map[string]GenotypeCount),
		Phenotypes:     make(map[string]PhenotypeStat),
	}
	phenotypeLabels := make(map[genetics.PhenotypeKey]string)

	for _, a := range g1 {
		for _, b := range g2 {
			offspring := Combine(a, b)

			key := offspring.String()
			entry, ok := res.Genotypes[key]
			if !ok {
				entry = GenotypeCount{Genotype: offspring}
				res.GenotypeOrder = append(res.GenotypeOrder, key)
			}
			entry.Count++
			res.Genotypes[key] = entry

			phenotype := offspring.Phenotype()
			label, ok := phenotypeLabels[phenotype.Key]
			if !ok {
				label = phenotype.Description
				if existing, taken := res.Phenotypes[label]; taken {
					panic(fmt.Sprintf("cross: phenotype description %q shared by %v and %v", label, existing.Phenotype.Key, phenotype.Key))
				}
				phenotypeLabels[phenotype.Key] = label
				res.PhenotypeOrder = append(res.PhenotypeOrder, label)
				res.Phenotypes[label] = PhenotypeStat{Phenotype: phenotype}
			}
			stat := res.Phenotypes[label]
			stat.Count++
			res.Phenotypes[label] = stat

			res.TotalCount++
		}
	}

	for label, stat := range res.Phenotypes {
		stat.Percentage = float64(stat.Count) / float64(res.TotalCount) * 100
		res.Phenotypes[label] = stat
	}
	return res
}

// SortedGenotypes returns genotype buckets by descending count, ties broken
// by genotype string.
func (r Result) SortedGenotypes() []GenotypeCount {
	out := make([]GenotypeCount, 0, len(r.GenotypeOrder))
	for _, key := range r.GenotypeOrder {
		out = append(out, r.Genotypes[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genotype.String() < out[j].Genotype.String()
	})
	return out
}

// SortedPhenotypes returns phenotype buckets by descending count, ties
// broken by description.
func (r Result) SortedPhenotypes() []PhenotypeStat {
	out := make([]PhenotypeStat, 0, len(r.PhenotypeOrder))
	for _, label := range r.PhenotypeOrder {
		out = append(out, r.Phenotypes[label])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Phenotype.Description < out[j].Phenotype.Description
	})
	return out
}

// Ratio reduces the sorted phenotype counts by their common divisor, e.g.
// [9 3 3 1] for a dihybrid cross.
func (r Result) Ratio() []int {
	stats := r.SortedPhenotypes()
	if len(stats) == 0 {
		return nil
	}
	divisor := 0
	for _, s := range stats {
		divisor = gcd(divisor, s.Count)
	}
	out := make([]int, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Count/divisor)
	}
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
