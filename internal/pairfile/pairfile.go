// Package pairfile reads and writes parent pairs as YAML documents:
//
//	name: calico test
//	parent1: BB Aa DD ss LL
//	parent2: bb' aa Dd Ss Ll
package pairfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JKrag/punnett-simulator/internal/genetics"
)

type Pair struct {
	Name    string
	Parent1 genetics.Genotype
	Parent2 genetics.Genotype
}

type document struct {
	Name    string `yaml:"name,omitempty"`
	Parent1 string `yaml:"parent1"`
	Parent2 string `yaml:"parent2"`
}

func Decode(r io.Reader) (Pair, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Pair{}, fmt.Errorf("pair file is empty")
		}
		return Pair{}, fmt.Errorf("decode pair file: %w", err)
	}

	p1, err := genetics.ParseGenotype(doc.Parent1)
	if err != nil {
		return Pair{}, fmt.Errorf("parent1: %w", err)
	}
	p2, err := genetics.ParseGenotype(doc.Parent2)
	if err != nil {
		return Pair{}, fmt.Errorf("parent2: %w", err)
	}
	return Pair{Name: doc.Name, Parent1: p1, Parent2: p2}, nil
}

func Read(path string) (Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pair{}, err
	}
	defer f.Close()

	pair, err := Decode(f)
	if err != nil {
		return Pair{}, fmt.Errorf("%s: %w", path, err)
	}
	return pair, nil
}

func Encode(p Pair) ([]byte, error) {
	if p.Parent1.IsZero() || p.Parent2.IsZero() {
		return nil, fmt.Errorf("%w: both parents are required", genetics.ErrInvalidGenotype)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Name: p.Name, Parent1: p.Parent1.String(), Parent2: p.Parent2.String()}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Write(path string, p Pair) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
