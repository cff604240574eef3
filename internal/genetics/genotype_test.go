package genetics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allGenotypes enumerates every ordered genotype the model allows.
func allGenotypes() []Genotype {
	partials := [][NumLoci]Gene{{}}
	for _, l := range Loci {
		ranks := l.Alleles()
		next := make([][NumLoci]Gene, 0, len(partials)*len(ranks)*len(ranks))
		for _, p := range partials {
			for _, a1 := range ranks {
				for _, a2 := range ranks {
					genes := p
					genes[l] = Gene{Allele1: a1, Allele2: a2}
					next = append(next, genes)
				}
			}
		}
		partials = next
	}
	out := make([]Genotype, 0, len(partials))
	for _, genes := range partials {
		out = append(out, MustFromGenes(genes))
	}
	return out
}

func TestNewGenotypeString(t *testing.T) {
	g, err := NewGenotype(Black, Black, Agouti, NonAgouti, Normal, Normal, NoSpotting, NoSpotting, Short, Short)
	require.NoError(t, err)
	assert.Equal(t, "BB Aa DD ss LL", g.String())

	g, err = NewGenotype(Brown, Cinnamon, NonAgouti, NonAgouti, Normal, Diluted, Spotting, NoSpotting, Short, Long)
	require.NoError(t, err)
	assert.Equal(t, "bb' aa Dd Ss Ll", g.String())
	assert.Equal(t, Gene{Allele1: Brown, Allele2: Cinnamon}, g.Gene(LocusBlackSeries))
}

func TestNewGenotypeRejectsForeignAllele(t *testing.T) {
	_, err := NewGenotype(Black, Agouti, Agouti, NonAgouti, Normal, Normal, NoSpotting, NoSpotting, Short, Short)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAllele))

	var alleleErr *AlleleError
	require.True(t, errors.As(err, &alleleErr))
	assert.Equal(t, LocusBlackSeries, alleleErr.Locus)
	assert.Equal(t, "A", alleleErr.Value)
	assert.Contains(t, err.Error(), "black_series")
}

func TestNewGenotypeRejectsZeroAllele(t *testing.T) {
	var unset Allele
	_, err := NewGenotype(Black, Black, Agouti, Agouti, Normal, Normal, Spotting, Spotting, Short, unset)

	var alleleErr *AlleleError
	require.True(t, errors.As(err, &alleleErr))
	assert.Equal(t, LocusHairLength, alleleErr.Locus)
}

func TestParseGenotypeRoundTripsEveryGenotype(t *testing.T) {
	all := allGenotypes()
	require.Len(t, all, 9*4*4*4*4)

	seen := make(map[string]struct{}, len(all))
	for _, g := range all {
		key := g.String()
		_, dup := seen[key]
		require.False(t, dup, "duplicate canonical string %q", key)
		seen[key] = struct{}{}

		parsed, err := ParseGenotype(key)
		require.NoError(t, err, key)
		require.Equal(t, g, parsed)
	}
}

func TestParseGenotypeErrors(t *testing.T) {
	cases := map[string]error{
		"":                  ErrInvalidGenotype,
		"BB Aa DD ss":       ErrInvalidGenotype,
		"BB Aa DD ss LL LL": ErrInvalidGenotype,
		"B Aa DD ss LL":     ErrInvalidGenotype,
		"Bbb Aa DD ss LL":   ErrInvalidGenotype,
		"BX Aa DD ss LL":    ErrInvalidAllele,
		"BB Aa DD ss Lb":    ErrInvalidAllele,
		"BB' Aa DD ss LL":   ErrInvalidAllele,
	}
	for in, want := range cases {
		_, err := ParseGenotype(in)
		if !errors.Is(err, want) {
			t.Fatalf("ParseGenotype(%q) err=%v want %v", in, err, want)
		}
	}
}

func TestGenotypeJSONRoundTrip(t *testing.T) {
	g := MustParseGenotype("bb' Aa Dd Ss Ll")

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"black_series": {"allele1": "b", "allele2": "b'"},
		"agouti": {"allele1": "A", "allele2": "a"},
		"dilution": {"allele1": "D", "allele2": "d"},
		"white_spotting": {"allele1": "S", "allele2": "s"},
		"hair_length": {"allele1": "L", "allele2": "l"}
	}`, string(data))

	var decoded Genotype
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g, decoded)
}

func TestGenotypeJSONAcceptsCanonicalString(t *testing.T) {
	var decoded Genotype
	require.NoError(t, json.Unmarshal([]byte(`"BB aa dd ss ll"`), &decoded))
	assert.Equal(t, "BB aa dd ss ll", decoded.String())
}

func TestGenotypeJSONRejectsInvalidAllele(t *testing.T) {
	var decoded Genotype
	err := json.Unmarshal([]byte(`{
		"black_series": {"allele1": "B", "allele2": "B"},
		"agouti": {"allele1": "A", "allele2": "x"},
		"dilution": {"allele1": "D", "allele2": "d"},
		"white_spotting": {"allele1": "S", "allele2": "s"},
		"hair_length": {"allele1": "L", "allele2": "l"}
	}`), &decoded)
	require.ErrorIs(t, err, ErrInvalidAllele)
	assert.True(t, decoded.IsZero())
}

func TestZeroGenotypeDoesNotMarshal(t *testing.T) {
	_, err := json.Marshal(Genotype{})
	require.Error(t, err)
}

func TestHeterozygousLoci(t *testing.T) {
	assert.Equal(t, 0, MustParseGenotype("BB AA DD SS LL").HeterozygousLoci())
	assert.Equal(t, 1, MustParseGenotype("BB Aa DD ss LL").HeterozygousLoci())
	assert.Equal(t, 4, MustParseGenotype("bb' aa Dd Ss Ll").HeterozygousLoci())
	assert.Equal(t, 5, MustParseGenotype("Bb Aa Dd Ss Ll").HeterozygousLoci())
}
