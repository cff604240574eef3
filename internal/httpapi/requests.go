package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/pkg/punnett"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type parentsRequest struct {
	PairingID string `json:"pairing_id" validate:"omitempty,uuid"`
	Parent1   string `json:"parent1" validate:"required_without=PairingID"`
	Parent2   string `json:"parent2" validate:"required_without=PairingID"`
}

func (r parentsRequest) toService() (punnett.ParentsRequest, error) {
	if r.PairingID != "" {
		return punnett.ParentsRequest{PairingID: r.PairingID}, nil
	}
	p1, err := genetics.ParseGenotype(r.Parent1)
	if err != nil {
		return punnett.ParentsRequest{}, fmt.Errorf("parent1: %w", err)
	}
	p2, err := genetics.ParseGenotype(r.Parent2)
	if err != nil {
		return punnett.ParentsRequest{}, fmt.Errorf("parent2: %w", err)
	}
	return punnett.ParentsRequest{Parent1: p1, Parent2: p2}, nil
}

type genotypeRequest struct {
	Genotype string `json:"genotype" validate:"required"`
}

type savePairingRequest struct {
	Name    string `json:"name" validate:"max=120"`
	Parent1 string `json:"parent1" validate:"required"`
	Parent2 string `json:"parent2" validate:"required"`
}

func (r savePairingRequest) toService() (punnett.SavePairingRequest, error) {
	p1, err := genetics.ParseGenotype(r.Parent1)
	if err != nil {
		return punnett.SavePairingRequest{}, fmt.Errorf("parent1: %w", err)
	}
	p2, err := genetics.ParseGenotype(r.Parent2)
	if err != nil {
		return punnett.SavePairingRequest{}, fmt.Errorf("parent2: %w", err)
	}
	return punnett.SavePairingRequest{Name: r.Name, Parent1: p1, Parent2: p2}, nil
}

// decodeRequest decodes a JSON body into dst and validates it. The returned
// error is safe to show to the client.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, fe.Field()+" is required")
		case "uuid":
			msgs = append(msgs, fe.Field()+" must be a uuid")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
