package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

const maxBodySize = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("bdmobile", func(fl validator.FieldLevel) bool {
		return catalog.ValidMobile(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}

// decodeJSON reads at most maxBodySize bytes of JSON into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxBodySize)
		}
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return errs.NewInvalidJSONError(err)
	}
	return validateRequest(dst)
}

// validateRequest turns the first failed validator rule into an ApiErr.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return errs.NewMissingRequiredFieldError(field)
	case "email":
		return errs.NewInvalidFieldError(field, "must be a valid email address")
	case "bdmobile":
		return errs.NewInvalidFieldError(field, "must match 01XXXXXXXXX")
	case "category":
		return errs.NewInvalidFieldError(field, "must be one of android, ios, desktop, web")
	case "min":
		if fe.Kind() == reflect.String {
			return errs.NewInvalidFieldError(field, fmt.Sprintf("must be at least %s characters", fe.Param()))
		}
		return errs.NewInvalidFieldError(field, "must be at least "+fe.Param())
	case "max":
		return errs.NewInvalidFieldError(field, "must be at most "+fe.Param())
	case "eqfield":
		return errs.NewInvalidFieldError(field, "passwords do not match")
	case "eq":
		return errs.NewInvalidFieldError(field, "must be accepted")
	default:
		return errs.NewInvalidFieldError(field, fmt.Sprintf("failed %q check", fe.Tag()))
	}
}

// commaList accepts either a JSON array or a comma separated string.
type commaList []string

func (l *commaList) UnmarshalJSON(data []byte) error {
	items, err := decodeList(data, catalog.SplitCSV)
	*l = items
	return err
}

// lineList accepts either a JSON array or newline separated text.
type lineList []string

func (l *lineList) UnmarshalJSON(data []byte) error {
	items, err := decodeList(data, catalog.SplitLines)
	*l = items
	return err
}

func decodeList(data []byte, split func(string) []string) ([]string, error) {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return split(text), nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return catalog.SplitLines(strings.Join(items, "\n")), nil
}

// amountInput accepts a positive whole number or a display price such as "70,000 BDT".
type amountInput int64

func (a *amountInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		n, err := catalog.ParseAmount(text)
		if err != nil {
			return invalidAmount(text)
		}
		*a = amountInput(n)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return errs.NewInvalidFieldError("amount", "must be a number")
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if n < 1 || n != math.Trunc(n) || n >= math.MaxInt64 {
		return invalidAmount(string(data))
	}
	*a = amountInput(int64(n))
	return nil
}

func invalidAmount(raw string) error {
	err := errs.NewInvalidPriceError(raw)
	err.Field = "amount"
	return err
}
