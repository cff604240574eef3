package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/pairfile"
	"github.com/JKrag/punnett-simulator/pkg/punnett"
)

// parentFlags selects the parents of a cross. With no flags set the default
// pair is used.
type parentFlags struct {
	parent1   string
	parent2   string
	file      string
	pairingID string
}

func (f *parentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.parent1, "p1", "", `parent1 genotype, e.g. "BB Aa DD ss LL"`)
	cmd.Flags().StringVar(&f.parent2, "p2", "", `parent2 genotype, e.g. "bb' aa Dd Ss Ll"`)
	cmd.Flags().StringVar(&f.file, "file", "", "YAML pair file with parent1 and parent2")
	cmd.Flags().StringVar(&f.pairingID, "pairing", "", "id of a saved pairing")
	cmd.MarkFlagsMutuallyExclusive("file", "pairing")
	cmd.MarkFlagsMutuallyExclusive("p1", "file")
	cmd.MarkFlagsMutuallyExclusive("p1", "pairing")
	cmd.MarkFlagsMutuallyExclusive("p2", "file")
	cmd.MarkFlagsMutuallyExclusive("p2", "pairing")
}

// resolve returns the request and a name taken from the pair file, if any.
func (f *parentFlags) resolve() (punnett.ParentsRequest, string, error) {
	switch {
	case f.pairingID != "":
		return punnett.ParentsRequest{PairingID: f.pairingID}, "", nil
	case f.file != "":
		pair, err := pairfile.Read(f.file)
		if err != nil {
			return punnett.ParentsRequest{}, "", err
		}
		return punnett.ParentsRequest{Parent1: pair.Parent1, Parent2: pair.Parent2}, pair.Name, nil
	case f.parent1 == "" && f.parent2 == "":
		p1, p2 := punnett.DefaultParents()
		return punnett.ParentsRequest{Parent1: p1, Parent2: p2}, "", nil
	case f.parent1 == "" || f.parent2 == "":
		return punnett.ParentsRequest{}, "", errors.New("both --p1 and --p2 are required")
	}

	p1, err := genetics.ParseGenotype(f.parent1)
	if err != nil {
		return punnett.ParentsRequest{}, "", fmt.Errorf("--p1: %w", err)
	}
	p2, err := genetics.ParseGenotype(f.parent2)
	if err != nil {
		return punnett.ParentsRequest{}, "", fmt.Errorf("--p2: %w", err)
	}
	return punnett.ParentsRequest{Parent1: p1, Parent2: p2}, "", nil
}
