package domain

import (
	"fmt"
	"regexp"
	"time"
)

var (
	cpfPattern   = regexp.MustCompile(`^[0-9]{11}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Client is an owned aggregate. Its business key is the CPF; two clients
// with the same CPF are the same client regardless of surrogate id.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CPF          string    `json:"cpf"`
	Email        string    `json:"email"`
	Birthday     time.Time `json:"birthday"`
	PasswordHash string    `json:"-"`
}

// Equal compares clients by CPF.
func (c Client) Equal(other Client) bool {
	return c.CPF == other.CPF
}

// Validate returns every field violation found, in field order.
func (c Client) Validate() []string {
	var violations []string
	if c.Name == "" {
		violations = append(violations, "the name must not be empty")
	} else if len(c.Name) > 50 {
		violations = append(violations, "the name is too long, at most 50 characters are allowed")
	}
	if !cpfPattern.MatchString(c.CPF) {
		violations = append(violations, "invalid CPF")
	}
	if c.Email == "" {
		violations = append(violations, "the e-mail must not be empty")
	} else if !emailPattern.MatchString(c.Email) {
		violations = append(violations, "invalid e-mail")
	}
	if c.Birthday.IsZero() {
		violations = append(violations, "the birth date must not be empty")
	} else if !c.Birthday.Before(time.Now()) {
		violations = append(violations, "invalid birth date")
	}
	return violations
}

// ClientPage is one page of clients plus paging metadata.
type ClientPage struct {
	Content       []Client `json:"content"`
	Page          int      `json:"page"`
	Size          int      `json:"size"`
	TotalElements int64    `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
}

func (p ClientPage) Empty() bool {
	return len(p.Content) == 0
}

// PageCount computes the number of pages needed for total elements at the
// given page size.
func PageCount(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return int(pages)
}

func fmtRequired(field string) string {
	return fmt.Sprintf("the %s must not be empty", field)
}
