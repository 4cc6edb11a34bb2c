package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contest-entry/internal/domain"
	"contest-entry/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	fileField   = "submissionFile"
	thankYouURL = "/thankyou"
)

type submissionHandler struct {
	orders      service.OrderService
	submissions service.SubmissionService
	maxUpload   int64
	log         *zap.Logger
}

func (h *submissionHandler) createOrder(c *gin.Context) {
	order, err := h.orders.CreateOrder(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"message": "Failed to create payment order", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *submissionHandler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, err := readFile(c)
	if err != nil {
		if status := statusFor(err); status == http.StatusRequestEntityTooLarge {
			c.JSON(status, gin.H{"message": fmt.Sprintf("File too large. Limit is %d MB.", h.maxUpload>>20)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed submission form."})
		return
	}

	out := h.submissions.Submit(c.Request.Context(), service.SubmitRequest{
		Form: domain.EntryForm{
			Name:     c.PostForm("name"),
			Email:    c.PostForm("email"),
			Phone:    c.PostForm("number"),
			Address:  c.PostForm("address"),
			Category: domain.Category(c.PostForm("category")),
		},
		Proof: domain.PaymentProof{
			OrderID:   c.PostForm("razorpay_order_id"),
			PaymentID: c.PostForm("razorpay_payment_id"),
			Signature: c.PostForm("razorpay_signature"),
		},
		File: file,
	})

	switch out.State {
	case service.StateRecorded:
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Submission successful!",
			"submissionId": out.Submission.ID,
			"redirectUrl":  thankYouURL,
		})
	case service.StateRejected:
		c.JSON(statusFor(out.Err), gin.H{"message": "Payment verification failed. Invalid signature."})
	case service.StateBadRequest:
		c.JSON(statusFor(out.Err), gin.H{"message": badRequestMessage(out.Err)})
	case service.StateUploadFailed:
		c.JSON(statusFor(out.Err), gin.H{"message": "Failed to upload file.", "error": out.Err.Error()})
	default:
		c.JSON(statusFor(out.Err), gin.H{"message": "Failed to save submission data after upload.", "error": out.Err.Error()})
	}
}

// readFile returns the uploaded file, or nil when the field is absent.
func readFile(c *gin.Context) (*service.File, error) {
	fh, err := c.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.File{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func badRequestMessage(err error) string {
	if errors.Is(err, service.ErrFileRequired) {
		return "Submission file is required."
	}
	msg := strings.TrimPrefix(err.Error(), domain.ErrBadRequest.Error()+": ")
	if msg == "" {
		return "Bad request."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
