package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Customer is a customer record.
type Customer struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	TIN              string    `json:"tin"`
	ContactName      string    `json:"contact_name,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	ParentCustomerID int64     `json:"parent_customer_id,omitempty"`
	ParentName       string    `json:"parent_name,omitempty"`
	CreatedAt        time.Time `json:"date_created"`
}

// CustomerRef is the short listing form of a customer.
type CustomerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	TIN  string `json:"tin,omitempty"`
}

// Country is a country record.
type Country struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// State is a state or province of a country.
type State struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
}

// Phrase is a translated UI string.
type Phrase struct {
	VarName string `json:"var_name"`
	Lang    string `json:"lang_code"`
	Value   string `json:"value"`
}

// Humanize turns a phrase key into readable text:
// "token_invalid" becomes "Token invalid".
func Humanize(varName string) string {
	s := strings.Join(strings.Split(strings.TrimSpace(varName), "_"), " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
