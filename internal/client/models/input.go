package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/wanderlog/internal/common"
)

// VisitInput is a partial update. A nil field keeps the existing value;
// a zero Rating or an empty Notes clears it.
type VisitInput struct {
	Rating        *int        `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Notes         *string     `json:"notes,omitempty"`
	VisitDates    []VisitDate `json:"visitDates,omitempty" validate:"omitempty,dive"`
	PlacesVisited []SubPlace  `json:"placesVisited,omitempty" validate:"omitempty,dive"`
	Photos        []string    `json:"photos,omitempty" validate:"omitempty,dive,required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks field ranges. The returned error wraps common.ErrorValidation.
func (in VisitInput) Validate() error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, fmt.Sprintf("%s %s", e.Namespace(), friendlyMessage(e)))
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(fields, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "datetime":
		return "must be a date formatted as " + e.Param()
	default:
		return "is invalid"
	}
}

// ApplyTo merges the input into e. It does not touch UpdatedAt.
func (in VisitInput) ApplyTo(e *VisitEntry) {
	if in.Rating != nil {
		if *in.Rating == 0 {
			e.Rating = nil
		} else {
			r := *in.Rating
			e.Rating = &r
		}
	}
	if in.Notes != nil {
		if *in.Notes == "" {
			e.Notes = nil
		} else {
			n := *in.Notes
			e.Notes = &n
		}
	}
	if in.VisitDates != nil {
		e.VisitDates = append([]VisitDate{}, in.VisitDates...)
	}
	if in.PlacesVisited != nil {
		e.PlacesVisited = append([]SubPlace{}, in.PlacesVisited...)
	}
	if in.Photos != nil {
		e.Photos = append([]string{}, in.Photos...)
	}
}
