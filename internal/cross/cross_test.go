package cross

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JKrag/punnett-simulator/internal/genetics"
)

// sampleGenotypes covers every heterozygosity level and each black series
// pair, without the cost of the full genotype space.
func sampleGenotypes() []genetics.Genotype {
	blacks := []string{"BB", "Bb", "Bb'", "bB", "bb", "bb'", "b'B", "b'b", "b'b'"}
	rest := []string{
		"AA DD SS LL",
		"Aa DD SS LL",
		"Aa Dd SS LL",
		"aA dD sS LL",
		"Aa Dd Ss Ll",
		"aa dd ss ll",
		"AA dd Ss lL",
	}
	var out []genetics.Genotype
	for _, b := range blacks {
		for _, r := range rest {
			out = append(out, genetics.MustParseGenotype(b+" "+r))
		}
	}
	return out
}

func TestGametesCountMatchesHeterozygosity(t *testing.T) {
	for _, g := range sampleGenotypes() {
		gametes := Gametes(g)
		want := 1 << g.HeterozygousLoci()
		require.Len(t, gametes, want, g.String())
		require.GreaterOrEqual(t, len(gametes), 1)
		require.LessOrEqual(t, len(gametes), 32)

		seen := make(map[Gamete]struct{}, len(gametes))
		for _, gm := range gametes {
			_, dup := seen[gm]
			require.False(t, dup, "duplicate gamete %s for %s", gm, g)
			seen[gm] = struct{}{}
		}
	}
}

func TestGametesOrderIsDeterministic(t *testing.T) {
	g := genetics.MustParseGenotype("Bb Aa DD ss LL")
	got := make([]string, 0, 4)
	for _, gm := range Gametes(g) {
		got = append(got, gm.String())
	}
	assert.Equal(t, []string{"BADsL", "BaDsL", "bADsL", "baDsL"}, got)
}

func TestGametesFullyHomozygous(t *testing.T) {
	gametes := Gametes(genetics.MustParseGenotype("BB AA DD SS LL"))
	require.Len(t, gametes, 1)
	assert.Equal(t, "BADSL", gametes[0].String())
}

func TestCombineOrdersAllelesByParent(t *testing.T) {
	a, err := ParseGamete("BADSL")
	require.NoError(t, err)
	b, err := ParseGamete("b'adsl")
	require.NoError(t, err)

	offspring := Combine(a, b)
	assert.Equal(t, "Bb' Aa Dd Ss Ll", offspring.String())
	assert.Equal(t, "b'B aA dD sS lL", Combine(b, a).String())
}

func TestParseGamete(t *testing.T) {
	g, err := ParseGamete("b'aDsl")
	require.NoError(t, err)
	assert.Equal(t, genetics.Cinnamon, g.Allele(genetics.LocusBlackSeries))
	assert.Equal(t, genetics.Long, g.Allele(genetics.LocusHairLength))
	assert.Equal(t, "b'aDsl", g.String())

	_, err = ParseGamete("BADS")
	require.ErrorIs(t, err, ErrInvalidGamete)

	_, err = ParseGamete("ABDSL")
	require.ErrorIs(t, err, genetics.ErrInvalidAllele)
}

func TestCrossDefaultParents(t *testing.T) {
	parent1 := genetics.MustParseGenotype("BB Aa DD ss LL")
	parent2 := genetics.MustParseGenotype("bb' aa Dd Ss Ll")

	res := Cross(parent1, parent2)
	require.Len(t, res.Parent1Gametes, 2)
	require.Len(t, res.Parent2Gametes, 16)
	assert.Equal(t, 32, res.TotalCount)

	for _, stat := range res.Phenotypes {
		assert.Equal(t, "Black", stat.Phenotype.BaseColor)
	}
}

func TestCrossThreeHeterozygousLoci(t *testing.T) {
	// Parent2 is homozygous at hair length here, leaving three
	// heterozygous loci.
	parent1 := genetics.MustParseGenotype("BB Aa DD ss LL")
	parent2 := genetics.MustParseGenotype("bb' aa Dd Ss LL")

	res := Cross(parent1, parent2)
	require.Len(t, res.Parent1Gametes, 2)
	require.Len(t, res.Parent2Gametes, 8)
	assert.Equal(t, 16, res.TotalCount)
	for _, stat := range res.Phenotypes {
		assert.Equal(t, "Black", stat.Phenotype.BaseColor)
	}
}

func TestCrossCountsAreConsistent(t *testing.T) {
	samples := sampleGenotypes()
	for i := 0; i < len(samples); i += 5 {
		for j := 0; j < len(samples); j += 7 {
			p1, p2 := samples[i], samples[j]
			res := Cross(p1, p2)

			require.Equal(t, len(Gametes(p1))*len(Gametes(p2)), res.TotalCount)
			require.Len(t, res.GenotypeOrder, len(res.Genotypes))
			require.Len(t, res.PhenotypeOrder, len(res.Phenotypes))

			genotypeSum := 0
			for _, entry := range res.Genotypes {
				genotypeSum += entry.Count
			}
			phenotypeSum := 0
			percentSum := 0.0
			for _, stat := range res.Phenotypes {
				phenotypeSum += stat.Count
				percentSum += stat.Percentage
			}
			require.Equal(t, res.TotalCount, genotypeSum)
			require.Equal(t, res.TotalCount, phenotypeSum)
			require.InDelta(t, 100.0, percentSum, 1e-9)
		}
	}
}

func TestCrossHomozygousParentDegenerates(t *testing.T) {
	homozygous := genetics.MustParseGenotype("BB AA DD SS LL")
	other := genetics.MustParseGenotype("bb' Aa Dd ss Ll")

	res := Cross(homozygous, other)
	require.Len(t, res.Parent1Gametes, 1)
	assert.Equal(t, len(Gametes(other)), res.TotalCount)
}

func TestCrossIdenticalHomozygousParents(t *testing.T) {
	parent := genetics.MustParseGenotype("b'b' aa dd ss ll")
	res := Cross(parent, parent)

	require.Equal(t, 1, res.TotalCount)
	require.Len(t, res.Genotypes, 1)
	require.Len(t, res.Phenotypes, 1)

	entry := res.Genotypes["b'b' aa dd ss ll"]
	assert.Equal(t, 1, entry.Count)
	stat := res.Phenotypes["Diluted Cinnamon Solid with long hair"]
	assert.Equal(t, 1, stat.Count)
	assert.Equal(t, 100.0, stat.Percentage)
}

func TestCrossMonohybridRatio(t *testing.T) {
	parent := genetics.MustParseGenotype("BB Aa DD SS LL")
	res := Cross(parent, parent)

	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, []string{"BB AA DD SS LL", "BB Aa DD SS LL", "BB aA DD SS LL", "BB aa DD SS LL"}, res.GenotypeOrder)
	assert.Equal(t, []int{3, 1}, res.Ratio())

	tabby := res.Phenotypes["Normal Black Tabby with short hair with white spots"]
	assert.Equal(t, 3, tabby.Count)
	assert.InDelta(t, 75.0, tabby.Percentage, 1e-9)
}

func TestCrossDihybridRatio(t *testing.T) {
	parent := genetics.MustParseGenotype("BB Aa DD Ss LL")
	res := Cross(parent, parent)

	assert.Equal(t, 16, res.TotalCount)
	assert.Equal(t, []int{9, 3, 3, 1}, res.Ratio())

	sorted := res.SortedPhenotypes()
	require.Len(t, sorted, 4)
	assert.Equal(t, "Normal Black Tabby with short hair with white spots", sorted[0].Phenotype.Description)
	assert.Equal(t, "Normal Black Solid with short hair", sorted[3].Phenotype.Description)
}

func TestCrossFullyHeterozygousWorstCase(t *testing.T) {
	parent := genetics.MustParseGenotype("Bb' Aa Dd Ss Ll")
	res := Cross(parent, parent)
	assert.Equal(t, 1024, res.TotalCount)

	total := 0
	for _, entry := range res.SortedGenotypes() {
		total += entry.Count
	}
	assert.Equal(t, 1024, total)
	// Allele order is kept, so every ordered pair is its own bucket.
	assert.Len(t, res.Genotypes, 1024)
	// Brown never appears: black or cinnamon at the black series locus.
	assert.Len(t, res.Phenotypes, 32)
}

func TestSquareMatchesCross(t *testing.T) {
	parent1 := genetics.MustParseGenotype("BB Aa DD ss LL")
	parent2 := genetics.MustParseGenotype("bb' aa Dd Ss Ll")

	grid := Square(parent1, parent2)
	res := Cross(parent1, parent2)

	require.Len(t, grid.Rows, len(res.Parent1Gametes))
	require.Len(t, grid.Cols, len(res.Parent2Gametes))
	require.Len(t, grid.Cells, res.TotalCount)

	counts := make(map[string]int)
	for idx, cell := range grid.Cells {
		assert.Equal(t, idx/len(grid.Cols), cell.Row)
		assert.Equal(t, idx%len(grid.Cols), cell.Col)
		assert.Equal(t, grid.Rows[cell.Row], cell.Parent1Gamete)
		assert.Equal(t, grid.Cols[cell.Col], cell.Parent2Gamete)
		counts[cell.Offspring.String()]++
	}
	for key, entry := range res.Genotypes {
		assert.Equal(t, entry.Count, counts[key], key)
	}

	cell, ok := grid.Cell(1, 2)
	require.True(t, ok)
	assert.Equal(t, grid.Cells[1*len(grid.Cols)+2], cell)
	_, ok = grid.Cell(len(grid.Rows), 0)
	assert.False(t, ok)
}

func TestGridJSONUsesGameteStrings(t *testing.T) {
	grid := Square(genetics.MustParseGenotype("BB AA DD SS LL"), genetics.MustParseGenotype("bb aa dd ss ll"))
	data, err := json.Marshal(grid)
	require.NoError(t, err)

	var decoded struct {
		Rows []string `json:"rows"`
		Cols []string `json:"cols"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"BADSL"}, decoded.Rows)
	assert.Equal(t, []string{"badsl"}, decoded.Cols)
}

func BenchmarkCrossWorstCase(b *testing.B) {
	parent := genetics.MustParseGenotype("Bb' Aa Dd Ss Ll")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Cross(parent, parent)
	}
}
