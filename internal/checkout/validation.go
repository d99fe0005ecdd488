package checkout

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// ValidationErrors maps a form field name to a message. Empty means valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func required(errs ValidationErrors, field, value, message string) bool {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
		return false
	}
	return true
}

// ValidateDelivery returns ValidationErrors keyed by JSON field name, or nil.
func ValidateDelivery(info domain.DeliveryInfo) error {
	errs := ValidationErrors{}

	required(errs, "firstName", info.FirstName, "first name is required")
	required(errs, "lastName", info.LastName, "last name is required")
	if required(errs, "email", info.Email, "email is required") && !emailPattern.MatchString(info.Email) {
		errs["email"] = "enter a valid email address"
	}
	required(errs, "phone", info.Phone, "phone is required")
	required(errs, "address", info.Address, "address is required")
	required(errs, "city", info.City, "city is required")
	required(errs, "district", info.District, "district is required")
	required(errs, "zipCode", info.ZipCode, "zip code is required")

	return errs.orNil()
}

// ValidatePayment checks the values a shopper typed, with or without the
// cosmetic separators added by the Format helpers.
func ValidatePayment(info domain.PaymentInfo) error {
	errs := ValidationErrors{}

	if required(errs, "cardNumber", info.CardNumber, "card number is required") {
		if digits := stripSeparators(info.CardNumber); len(digits) != 16 || !digitsPattern.MatchString(digits) {
			errs["cardNumber"] = "enter a valid card number"
		}
	}
	required(errs, "cardHolder", info.CardHolder, "card holder is required")
	if required(errs, "expiryDate", info.ExpiryDate, "expiry date is required") && !expiryPattern.MatchString(info.ExpiryDate) {
		errs["expiryDate"] = "enter a valid date (MM/YY)"
	}
	if required(errs, "cvv", info.CVV, "cvv is required") {
		if len(info.CVV) != 3 || !digitsPattern.MatchString(info.CVV) {
			errs["cvv"] = "enter a valid cvv"
		}
	}

	return errs.orNil()
}

func stripSeparators(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}
