package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/repository"
)

// TemplateService — операции бизнеса над шаблонами доступности.
type TemplateService struct {
	templateRepo repository.TemplateRepository
	activityRepo repository.ActivityRepository
}

func NewTemplateService(
	templateRepo repository.TemplateRepository,
	activityRepo repository.ActivityRepository,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		activityRepo: activityRepo,
	}
}

// Deactivate переводит шаблон в inactive. Отказывает, пока на шаблон
// ссылается хотя бы одна published-активность.
func (s *TemplateService) Deactivate(ctx context.Context, templateID string) error {
	if _, err := s.templateRepo.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}

	count, err := s.activityRepo.CountPublishedByTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	if count > 0 {
		return precondition(CodeTemplateInUse, "template is referenced by a published activity")
	}

	return s.templateRepo.UpdateStatus(ctx, templateID, model.TemplateStatusInactive)
}
