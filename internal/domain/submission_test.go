package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() *Submission {
	return &Submission{
		Name:          "Asha",
		Email:         "asha@example.com",
		Phone:         "9999999999",
		Address:       "12 MG Road",
		Category:      CategoryDrawing,
		FileName:      "sketch.png",
		FileLocation:  "https://storage.example.com/bucket/key",
		PaymentStatus: PaymentSuccess,
	}
}

func TestSubmissionValidate(t *testing.T) {
	require.NoError(t, validSubmission().Validate())

	tests := []struct {
		name   string
		mutate func(s *Submission)
	}{
		{"missing name", func(s *Submission) { s.Name = "" }},
		{"blank email", func(s *Submission) { s.Email = "   " }},
		{"missing phone", func(s *Submission) { s.Phone = "" }},
		{"missing address", func(s *Submission) { s.Address = "" }},
		{"missing file location", func(s *Submission) { s.FileLocation = "" }},
		{"missing file name", func(s *Submission) { s.FileName = "" }},
		{"unknown category", func(s *Submission) { s.Category = "Dance" }},
		{"unknown status", func(s *Submission) { s.PaymentStatus = "Refunded" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrValidation)
		})
	}
}

func TestEntryFormValidate(t *testing.T) {
	form := EntryForm{Name: "A", Email: "a@b.c", Phone: "1", Address: "x", Category: CategorySinging}
	require.NoError(t, form.Validate())

	form.Category = ""
	err := form.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "category")
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "my_summer_photo.jpg", SanitizeFileName("my summer  photo.jpg"))
	assert.Equal(t, "tab_name.mp3", SanitizeFileName("tab\tname.mp3"))
	assert.Equal(t, "plain.pdf", SanitizeFileName("plain.pdf"))
}
