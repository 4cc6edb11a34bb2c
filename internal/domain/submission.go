package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryEssay       Category = "Essay"
	CategoryDrawing     Category = "Drawing"
	CategoryPhotography Category = "Photography"
	CategorySinging     Category = "Singing"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEssay, CategoryDrawing, CategoryPhotography, CategorySinging:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// Submission is the durable record of one paid contest entry.
type Submission struct {
	ID            uuid.UUID     `json:"_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"number"`
	Address       string        `json:"address"`
	Category      Category      `json:"category"`
	FileName      string        `json:"fileName"`
	FileLocation  string        `json:"filePath"`
	FileKey       string        `json:"-"`
	FileMimeType  string        `json:"fileMimetype,omitempty"`
	SubmittedAt   time.Time     `json:"submissionDate"`
	PaymentID     string        `json:"paymentId,omitempty"`
	OrderID       string        `json:"orderId,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// Validate checks the record invariants. The returned error wraps ErrValidation.
func (s *Submission) Validate() error {
	if err := requireFields(map[string]string{
		"name":     s.Name,
		"email":    s.Email,
		"number":   s.Phone,
		"address":  s.Address,
		"fileName": s.FileName,
		"filePath": s.FileLocation,
	}); err != nil {
		return err
	}
	if !s.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, s.Category)
	}
	switch s.PaymentStatus {
	case PaymentPending, PaymentSuccess, PaymentFailed:
	default:
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, s.PaymentStatus)
	}
	return nil
}

// EntryForm holds the contact fields posted with a submission, before any
// file or payment data is attached.
type EntryForm struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Category Category
}

func (f EntryForm) Validate() error {
	if err := requireFields(map[string]string{
		"name":     f.Name,
		"email":    f.Email,
		"number":   f.Phone,
		"address":  f.Address,
		"category": string(f.Category),
	}); err != nil {
		return err
	}
	if !f.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, f.Category)
	}
	return nil
}

// PaymentProof is what the gateway checkout hands back to the client.
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
}

var whitespace = regexp.MustCompile(`\s+`)

// SanitizeFileName replaces every whitespace run with an underscore.
func SanitizeFileName(name string) string {
	return whitespace.ReplaceAllString(name, "_")
}

func requireFields(fields map[string]string) error {
	var missing []string
	for _, k := range []string{"name", "email", "number", "address", "category", "fileName", "filePath"} {
		v, ok := fields[k]
		if ok && strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
