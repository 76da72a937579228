package classes

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/gymbooking/internal/domain"
	"github.com/Domenick1991/gymbooking/internal/repository"
)

type ClassUseCase interface {
	List(ctx context.Context, filter repository.ClassFilter) ([]domain.Class, error)
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
	Create(ctx context.Context, class *domain.Class) error
	Update(ctx context.Context, class *domain.Class) error
	SetActive(ctx context.Context, id int64, active bool) (*domain.Class, error)
	Delete(ctx context.Context, id int64) error
}

// Cache holds the unfiltered class listing. Admin writes invalidate it.
type Cache interface {
	GetClasses(ctx context.Context) ([]domain.Class, error)
	SetClasses(ctx context.Context, classes []domain.Class) error
	InvalidateClasses(ctx context.Context) error
}

type ClassService struct {
	repo  repository.ClassRepository
	cache Cache
}

func NewClassService(repo repository.ClassRepository, cache Cache) *ClassService {
	return &ClassService{repo: repo, cache: cache}
}

func (s *ClassService) List(ctx context.Context, filter repository.ClassFilter) ([]domain.Class, error) {
	cacheable := filter == (repository.ClassFilter{})
	if cacheable && s.cache != nil {
		if cached, err := s.cache.GetClasses(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if cacheable && s.cache != nil {
		if err := s.cache.SetClasses(ctx, classes); err != nil {
			log.Printf("WARNING: failed to cache class listing: %v", err)
		}
	}
	return classes, nil
}

func (s *ClassService) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClassService) Create(ctx context.Context, class *domain.Class) error {
	if err := validateClass(class); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClassService) Update(ctx context.Context, class *domain.Class) error {
	if err := validateClass(class); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, class); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClassService) SetActive(ctx context.Context, id int64, active bool) (*domain.Class, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClassService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateClasses(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate class listing cache: %v", err)
	}
}

func validateClass(class *domain.Class) error {
	verr := &domain.ValidationError{}
	if class.Name == "" {
		verr.Add("name", "name is required")
	}
	if class.Capacity < 1 {
		verr.Add("capacity", "capacity must be at least 1")
	}
	if !domain.ValidWeekday(class.Schedule.Day) {
		verr.Add("day", "day must be a lowercase weekday name")
	}
	if class.Schedule.StartTime == "" {
		verr.Add("start_time", "start time is required")
	} else if _, err := time.Parse("15:04", class.Schedule.StartTime); err != nil {
		verr.Add("start_time", "start time must be formatted as HH:MM")
	}
	if class.Schedule.DurationMinutes < 15 || class.Schedule.DurationMinutes > 180 {
		verr.Add("duration_minutes", "duration must be between 15 and 180 minutes")
	}
	if class.PriceCents < 0 {
		verr.Add("price_cents", "price cannot be negative")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

var _ ClassUseCase = (*ClassService)(nil)
