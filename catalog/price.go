package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hamim5264/devengine/errs"
)

var (
	leadingInteger = regexp.MustCompile(`^\d+`)
	nonDigits      = regexp.MustCompile(`\D`)
)

// ParseAmount reads the chargeable amount from a display price such as
// "70,000 BDT" or "1,00,000 BDT". Anything without a positive leading integer
// is rejected.
func ParseAmount(display string) (int64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(display, ",", ""))
	digits := leadingInteger.FindString(cleaned)
	if digits == "" {
		return 0, errs.NewInvalidPriceError(display)
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || amount <= 0 {
		return 0, errs.NewInvalidPriceError(display)
	}
	return amount, nil
}

// NumericValue keeps only the digits of a display price. Used for filtering,
// where an unreadable price counts as zero.
func NumericValue(display string) int64 {
	digits := nonDigits.ReplaceAllString(display, "")
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
