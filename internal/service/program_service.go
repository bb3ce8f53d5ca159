package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-calendar/internal/catalog"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/repository"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrNoPrograms      = errors.New("no programs to import")
)

// --- Service Interface ---
type ProgramService interface {
	// Import normalizes and stores programs, replacing any with the same id.
	Import(ctx context.Context, programs []domain.Program) ([]domain.Program, error)
	List(ctx context.Context) ([]domain.Program, error)
	Get(ctx context.Context, programID string) (*domain.Program, error)
	// Select makes the program current. A non-nil startDate is stamped on
	// the program, which starts its week gating.
	Select(ctx context.Context, programID string, startDate *time.Time) (*domain.Program, error)
	Current(ctx context.Context) (*domain.Program, error)
	Delete(ctx context.Context, programID string) error
}

// --- Service Implementation ---

type programService struct {
	programRepo repository.ProgramRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programRepo repository.ProgramRepository) ProgramService {
	return &programService{
		programRepo: programRepo,
	}
}

func (s *programService) Import(ctx context.Context, programs []domain.Program) ([]domain.Program, error) {
	if len(programs) == 0 {
		return nil, ErrNoPrograms
	}

	imported := make([]domain.Program, 0, len(programs))
	for i := range programs {
		program := programs[i]
		if err := catalog.Normalize(&program); err != nil {
			return imported, fmt.Errorf("program %q: %w", program.Name, err)
		}
		if err := s.programRepo.Save(ctx, &program); err != nil {
			return imported, err
		}
		log.Infof("imported program %s (%s), %d weeks", program.ID, program.Name, program.TotalWeeks())
		imported = append(imported, program)
	}
	return imported, nil
}

func (s *programService) List(ctx context.Context) ([]domain.Program, error) {
	return s.programRepo.List(ctx)
}

func (s *programService) Get(ctx context.Context, programID string) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return program, nil
}

func (s *programService) Select(ctx context.Context, programID string, startDate *time.Time) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if startDate != nil {
		start := domain.StartOfDay(*startDate)
		program.StartDate = &start
		if err := s.programRepo.Save(ctx, program); err != nil {
			return nil, err
		}
	}

	if err := s.programRepo.SetCurrentID(ctx, programID); err != nil {
		return nil, mapNotFound(err)
	}
	return program, nil
}

func (s *programService) Current(ctx context.Context) (*domain.Program, error) {
	program, err := s.programRepo.Current(ctx)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return program, nil
}

func (s *programService) Delete(ctx context.Context, programID string) error {
	return mapNotFound(s.programRepo.Delete(ctx, programID))
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}
