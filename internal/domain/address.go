package domain

import "regexp"

var (
	cepPattern    = regexp.MustCompile(`^[0-9]{8}$`)
	numberPattern = regexp.MustCompile(`^[0-9]{1,9}$`)
)

// AddressType is a catalog value addresses reference by id.
type AddressType struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Address belongs to exactly one client. Orders snapshot a reference to it
// at creation time; deleting it later does not touch historical orders.
type Address struct {
	ID       int64  `json:"id"`
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	CEP      string `json:"cep"`
	State    string `json:"state"`
	TypeID   int    `json:"typeId"`
	ClientID int64  `json:"-"`
}

// Validate returns every field violation found.
func (a Address) Validate() []string {
	var violations []string
	if a.Street == "" {
		violations = append(violations, fmtRequired("street"))
	}
	if !numberPattern.MatchString(a.Number) {
		violations = append(violations, "invalid street number")
	}
	if a.District == "" {
		violations = append(violations, fmtRequired("district"))
	}
	if a.City == "" {
		violations = append(violations, fmtRequired("city"))
	}
	if !cepPattern.MatchString(a.CEP) {
		violations = append(violations, "invalid CEP")
	}
	if a.State == "" {
		violations = append(violations, fmtRequired("state"))
	}
	if a.TypeID == 0 {
		violations = append(violations, "the address type must not be empty")
	}
	if a.ClientID == 0 {
		violations = append(violations, "the address client must not be empty")
	}
	return violations
}
