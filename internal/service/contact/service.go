package contact

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/repository"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

// phonePattern is deliberately permissive: digits, spaces, parentheses,
// plus and hyphen, 10-20 chars.
var phonePattern = regexp.MustCompile(`^[0-9+()\s-]{10,20}$`)

type Service interface {
	Create(ctx context.Context, auth model.AuthContext, req *model.CreateContactRequest) (*model.EmergencyContact, error)
	List(ctx context.Context, auth model.AuthContext) ([]*model.EmergencyContact, error)
	Delete(ctx context.Context, auth model.AuthContext, id uuid.UUID) error
}

type service struct {
	repo     repository.ContactRepository
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewService(repo repository.ContactRepository, logger *zerolog.Logger) Service {
	// Reuse the binding tags so handler-level and service-level
	// validation can never disagree.
	validate := validator.New()
	validate.SetTagName("binding")

	return &service{
		repo:     repo,
		validate: validate,
		logger:   logger,
	}
}

func (s *service) Create(ctx context.Context, auth model.AuthContext, req *model.CreateContactRequest) (*model.EmergencyContact, error) {
	if err := s.validateContact(req); err != nil {
		return nil, errors.InvalidInput(err.Error(), err)
	}

	contact := &model.EmergencyContact{
		Base:   model.Base{ID: uuid.New()},
		UserID: auth.UserID,
		Name:   req.Name,
	}
	if req.Phone != "" {
		contact.Phone = &req.Phone
	}
	if req.Email != "" {
		contact.Email = &req.Email
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, errors.Persistence("create contact", err)
	}

	s.logger.Info().
		Str("user_id", auth.UserID.String()).
		Str("contact_id", contact.ID.String()).
		Msg("emergency contact added")
	return contact, nil
}

func (s *service) List(ctx context.Context, auth model.AuthContext) ([]*model.EmergencyContact, error) {
	contacts, err := s.repo.ListByUser(ctx, auth.UserID)
	if err != nil {
		return nil, errors.Persistence("list contacts", err)
	}
	return contacts, nil
}

func (s *service) Delete(ctx context.Context, auth model.AuthContext, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, auth.UserID, id); err != nil {
		return errors.NotFound("contact", err)
	}

	s.logger.Info().
		Str("user_id", auth.UserID.String()).
		Str("contact_id", id.String()).
		Msg("emergency contact removed")
	return nil
}

// validateContact enforces the canonical contact rule: name required,
// at least one of phone/email present, and each well-formed when given.
func (s *service) validateContact(req *model.CreateContactRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	if req.Phone == "" && req.Email == "" {
		return fmt.Errorf("contact needs a phone number or an email address")
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return fmt.Errorf("phone number is not valid")
	}
	return nil
}
