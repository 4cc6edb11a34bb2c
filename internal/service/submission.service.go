package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contest-entry/internal/domain"
	"contest-entry/internal/infrastructure/payment"
	"contest-entry/internal/infrastructure/storage"
	"contest-entry/internal/metrics"

	"go.uber.org/zap"
)

type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) (storage.Blob, error)
	Delete(ctx context.Context, key string) error
}

type Recorder interface {
	Save(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
}

// File is an uploaded file held in memory for the duration of one request.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

type SubmitRequest struct {
	Form  domain.EntryForm
	Proof domain.PaymentProof
	File  *File
}

type State int

const (
	StateReceived State = iota
	StateBadRequest
	StateVerifying
	StateVerified
	StateRejected
	StateUploading
	StateUploaded
	StateUploadFailed
	StatePersisting
	StateRecorded
	StatePersistFailed
)

var stateNames = [...]string{
	StateReceived:      "received",
	StateBadRequest:    "bad_request",
	StateVerifying:     "verifying",
	StateVerified:      "verified",
	StateRejected:      "rejected",
	StateUploading:     "uploading",
	StateUploaded:      "uploaded",
	StateUploadFailed:  "upload_failed",
	StatePersisting:    "persisting",
	StateRecorded:      "recorded",
	StatePersistFailed: "persist_failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) Terminal() bool {
	switch s {
	case StateBadRequest, StateRejected, StateUploadFailed, StateRecorded, StatePersistFailed:
		return true
	}
	return false
}

// Outcome is the terminal result of one submission attempt.
type Outcome struct {
	State      State
	Trace      []State
	Submission *domain.Submission
	Err        error
}

type SubmissionService interface {
	Submit(ctx context.Context, req SubmitRequest) Outcome
}

type submissionService struct {
	verifier payment.Verifier
	uploader Uploader
	recorder Recorder
	metrics  *metrics.Metrics
	log      *zap.Logger

	compensateTimeout time.Duration
}

func NewSubmissionService(
	verifier payment.Verifier,
	uploader Uploader,
	recorder Recorder,
	m *metrics.Metrics,
	log *zap.Logger,
) SubmissionService {
	return &submissionService{
		verifier:          verifier,
		uploader:          uploader,
		recorder:          recorder,
		metrics:           m,
		log:               log,
		compensateTimeout: 10 * time.Second,
	}
}

// saga carries the state of one submission through the transitions.
type saga struct {
	req    SubmitRequest
	state  State
	blob   storage.Blob
	record *domain.Submission
	err    error
}

func (s *submissionService) Submit(ctx context.Context, req SubmitRequest) Outcome {
	run := &saga{req: req, state: StateReceived}
	trace := []State{run.state}
	for !run.state.Terminal() {
		run.state = s.transition(ctx, run)
		trace = append(trace, run.state)
	}

	s.metrics.Submissions.WithLabelValues(run.state.String()).Inc()
	fields := []zap.Field{
		zap.String("state", run.state.String()),
		zap.String("order_id", req.Proof.OrderID),
		zap.String("payment_id", req.Proof.PaymentID),
	}
	if run.err != nil {
		s.log.Warn("submission not recorded", append(fields, zap.Error(run.err))...)
	} else {
		s.log.Info("submission recorded", append(fields, zap.Stringer("submission_id", run.record.ID))...)
	}

	return Outcome{State: run.state, Trace: trace, Submission: run.record, Err: run.err}
}

// transition performs the work of run.state and returns the next state.
func (s *submissionService) transition(ctx context.Context, run *saga) State {
	switch run.state {
	case StateReceived:
		if err := checkRequest(run.req); err != nil {
			run.err = err
			return StateBadRequest
		}
		return StateVerifying

	case StateVerifying:
		p := run.req.Proof
		if !s.verifier.Verify(p.OrderID, p.PaymentID, p.Signature) {
			run.err = domain.ErrPaymentRejected
			return StateRejected
		}
		return StateVerified

	case StateVerified:
		return StateUploading

	case StateUploading:
		f := run.req.File
		blob, err := s.uploader.Upload(ctx, f.Data, domain.SanitizeFileName(f.Name), f.MimeType)
		if err != nil {
			run.err = ensure(err, domain.ErrUpload)
			return StateUploadFailed
		}
		run.blob = blob
		return StateUploaded

	case StateUploaded:
		return StatePersisting

	case StatePersisting:
		rec, err := s.recorder.Save(ctx, s.buildRecord(run))
		if err != nil {
			run.err = ensure(err, domain.ErrPersistence)
			s.compensate(ctx, run.blob)
			return StatePersistFailed
		}
		run.record = rec
		return StateRecorded
	}

	run.err = fmt.Errorf("no transition from terminal state %s", run.state)
	return run.state
}

func (s *submissionService) buildRecord(run *saga) *domain.Submission {
	f, form, proof := run.req.File, run.req.Form, run.req.Proof
	return &domain.Submission{
		Name:          form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		Address:       form.Address,
		Category:      form.Category,
		FileName:      domain.SanitizeFileName(f.Name),
		FileLocation:  run.blob.URL,
		FileKey:       run.blob.Key,
		FileMimeType:  f.MimeType,
		PaymentID:     proof.PaymentID,
		OrderID:       proof.OrderID,
		PaymentStatus: domain.PaymentSuccess,
	}
}

// compensate removes a blob whose record could not be written. Failure leaves
// an orphan; it is logged and counted, never returned.
func (s *submissionService) compensate(ctx context.Context, blob storage.Blob) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.compensateTimeout)
	defer cancel()

	if err := s.uploader.Delete(ctx, blob.Key); err != nil {
		s.metrics.OrphanedBlobs.Inc()
		s.log.Error("compensating delete failed",
			zap.Bool("orphaned_blob", true),
			zap.String("key", blob.Key),
			zap.Error(err),
		)
		return
	}
	s.log.Info("deleted blob after persistence failure", zap.String("key", blob.Key))
}

// AllowedMimeType reports whether the upload filter accepts mimeType.
func AllowedMimeType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") ||
		strings.HasPrefix(mimeType, "audio/") ||
		strings.HasPrefix(mimeType, "video/") ||
		mimeType == "application/pdf"
}

var (
	ErrFileRequired = fmt.Errorf("%w: submission file is required", domain.ErrBadRequest)
	ErrFileType     = fmt.Errorf("%w: invalid file type, only images, PDF, audio or video allowed", domain.ErrBadRequest)
)

func checkRequest(req SubmitRequest) error {
	if req.File == nil || len(req.File.Data) == 0 {
		return ErrFileRequired
	}
	if !AllowedMimeType(req.File.MimeType) {
		return ErrFileType
	}
	if err := req.Form.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}
	return nil
}

func ensure(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
