package talent

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"jobmate/directory-service/pkg/logging"
)

// Welcomer sends the welcome email without blocking the caller.
type Welcomer interface {
	SendWelcomeAsync(to, fullName string, departments []string)
}

// Service implements the talent network operations.
type Service struct {
	repo           Repository
	welcome        Welcomer
	maxResumeBytes int64
	log            *logging.Logger
}

// NewService returns a configured Service. welcome may be nil.
func NewService(repo Repository, welcome Welcomer, maxResumeBytes int64, log *logging.Logger) *Service {
	return &Service{
		repo:           repo,
		welcome:        welcome,
		maxResumeBytes: maxResumeBytes,
		log:            log.With("component", "talent"),
	}
}

// MaxResumeBytes is the largest accepted resume.
func (s *Service) MaxResumeBytes() int64 { return s.maxResumeBytes }

// CheckResume rejects files over the size cap and files whose content is
// not a PDF. The declared content type is not trusted.
func (s *Service) CheckResume(content []byte) error {
	if int64(len(content)) > s.maxResumeBytes {
		return &ValidationError{Msg: MsgResumeTooLarge}
	}
	if !mimetype.Detect(content).Is("application/pdf") {
		return &ValidationError{Msg: MsgResumeNotPDF}
	}
	return nil
}

// Join validates req, stores the profile together with the optional resume
// and queues the welcome email.
func (s *Service) Join(ctx context.Context, req JoinRequest, resume []byte) (Profile, error) {
	if err := req.Validate(); err != nil {
		return Profile{}, err
	}

	p := Profile{
		ID:          uuid.NewString(),
		FullName:    req.FullName,
		Email:       req.Email,
		LinkedInURL: optional(req.LinkedInURL),
		Location:    optional(req.Location),
		Departments: req.Departments,
	}

	var res *Resume
	if len(resume) > 0 {
		if err := s.CheckResume(resume); err != nil {
			return Profile{}, err
		}
		path := uuid.NewString() + ".pdf"
		res = &Resume{Path: path, ContentType: "application/pdf", Content: resume}
		p.ResumePath = &path
	}

	created, err := s.repo.Create(ctx, p, res)
	if err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	s.log.Info("talent profile created", "id", created.ID, "departments", len(created.Departments), "resume", res != nil)

	if s.welcome != nil {
		s.welcome.SendWelcomeAsync(created.Email, created.FullName, created.Departments)
	}
	return created, nil
}

// List returns every profile, newest first.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

// Resume returns the stored resume at path or ErrNotFound.
func (s *Service) Resume(ctx context.Context, path string) (Resume, error) {
	return s.repo.Resume(ctx, path)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
