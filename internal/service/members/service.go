package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/CourtBookingService/internal/domain"
	memberRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/member"
	"github.com/m04kA/CourtBookingService/internal/service/members/models"
)

// Service сервис участников клуба
type Service struct {
	repo         MemberRepository
	validate     *validator.Validate
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса участников
func NewService(repo MemberRepository, location *time.Location, logger Logger) *Service {
	return &Service{
		repo:         repo,
		validate:     validator.New(),
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetQuota возвращает остаток бесплатных слотов за текущий год.
// Для неизвестного email возвращает isMember=false и 0.
func (s *Service) GetQuota(ctx context.Context, email string) (*models.QuotaResponse, error) {
	email, err := s.normalize(email)
	if err != nil {
		return nil, err
	}

	year := s.timeProvider.Now().In(s.location).Year()
	quota, err := s.repo.RemainingQuota(ctx, email, year)
	if err != nil {
		s.logger.Error("GetQuota: repository error for email=%s: %v", email, err)
		return nil, fmt.Errorf("%w: GetQuota - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetQuota: email=%s member=%t remaining=%d year=%d", email, quota.IsMember, quota.SlotsRemaining, year)
	return &models.QuotaResponse{IsMember: quota.IsMember, SlotsRemaining: quota.SlotsRemaining}, nil
}

// Create регистрирует участника
func (s *Service) Create(ctx context.Context, email string) (*models.MemberResponse, error) {
	email, err := s.normalize(email)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.Create(ctx, email)
	if err != nil {
		if errors.Is(err, memberRepo.ErrMemberAlreadyExists) {
			s.logger.Warn("Create: member email=%s already exists", email)
			return nil, ErrMemberAlreadyExists
		}
		s.logger.Error("Create: repository error for email=%s: %v", email, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: member email=%s created", email)
	return models.FromDomainMember(member), nil
}

// Delete удаляет участника вместе с историей квоты
func (s *Service) Delete(ctx context.Context, email string) error {
	email, err := s.normalize(email)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, email); err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			s.logger.Warn("Delete: member email=%s not found", email)
			return ErrMemberNotFound
		}
		s.logger.Error("Delete: repository error for email=%s: %v", email, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: member email=%s deleted", email)
	return nil
}

// UpdateEmail меняет email участника
func (s *Service) UpdateEmail(ctx context.Context, oldEmail, newEmail string) error {
	oldEmail, err := s.normalize(oldEmail)
	if err != nil {
		return err
	}
	newEmail, err = s.normalize(newEmail)
	if err != nil {
		return err
	}
	if oldEmail == newEmail {
		return nil
	}

	if err := s.repo.UpdateEmail(ctx, oldEmail, newEmail); err != nil {
		switch {
		case errors.Is(err, memberRepo.ErrMemberNotFound):
			s.logger.Warn("UpdateEmail: member email=%s not found", oldEmail)
			return ErrMemberNotFound
		case errors.Is(err, memberRepo.ErrMemberAlreadyExists):
			s.logger.Warn("UpdateEmail: email=%s is already taken", newEmail)
			return ErrMemberAlreadyExists
		default:
			s.logger.Error("UpdateEmail: repository error for email=%s: %v", oldEmail, err)
			return fmt.Errorf("%w: UpdateEmail - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateEmail: member email=%s renamed to %s", oldEmail, newEmail)
	return nil
}

// List возвращает всех участников
func (s *Service) List(ctx context.Context) ([]*models.MemberResponse, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainMemberList(members), nil
}

func (s *Service) normalize(email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email,max=255"); err != nil {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	return email, nil
}
