package genetics

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAllele   = errors.New("invalid allele")
	ErrInvalidGenotype = errors.New("invalid genotype")
)

// AlleleError reports a value that is not one of the alleles declared for a
// locus.
type AlleleError struct {
	Locus Locus
	Value string
}

func (e *AlleleError) Error() string {
	return fmt.Sprintf("invalid allele %q for locus %s", e.Value, e.Locus)
}

func (e *AlleleError) Unwrap() error {
	return ErrInvalidAllele
}

func alleleError(l Locus, a Allele) *AlleleError {
	value := a.Symbol()
	if !a.Valid() {
		value = fmt.Sprintf("allele(%d)", a)
	}
	return &AlleleError{Locus: l, Value: value}
}
