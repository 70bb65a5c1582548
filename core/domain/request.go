package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

var validate = validator.New()

// QueryRequest is the pair of inputs a case query is issued with.
type QueryRequest struct {
	// Region is the department name, already normalised by NormalizeRegion.
	Region string `validate:"required"`
	// Limit is the remote row cap. There is no upper bound here; the
	// presenter asks for confirmation above its threshold.
	Limit int `validate:"gt=0"`
}

// NewQueryRequest normalises the region and validates the request.
func NewQueryRequest(region string, limit int) (QueryRequest, error) {
	req := QueryRequest{Region: NormalizeRegion(region), Limit: limit}
	if err := req.Validate(); err != nil {
		return QueryRequest{}, err
	}
	return req, nil
}

// Validate checks the request invariants.
func (r QueryRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && fieldErrs[0].Field() == "Region" {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "department name must not be empty", err)
	}
	return apperrors.NewAppError(
		apperrors.ErrCodeInvalidInput,
		fmt.Sprintf("row limit must be a positive integer, got %d", r.Limit),
		err,
	)
}

// NormalizeRegion trims and upper-cases a department name using Spanish
// casing rules, so "bogotá d.c." becomes "BOGOTÁ D.C.".
func NormalizeRegion(region string) string {
	return cases.Upper(language.Spanish).String(strings.TrimSpace(region))
}

// MatchesRegion reports whether value contains region, ignoring case.
func MatchesRegion(value, region string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(value), fold.String(region))
}
