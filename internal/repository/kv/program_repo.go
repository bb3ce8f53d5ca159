package kv

import (
	"context"
	"sync"

	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/repository"
	"alcyxob/fitness-calendar/internal/storage"

	log "github.com/sirupsen/logrus"
)

// programRepository reads the catalog from the store on every call; the
// catalog is small and only changes on import.
type programRepository struct {
	store     storage.KeyValueStore
	onCorrupt repository.CorruptionHook
	mutex     sync.Mutex
}

// NewProgramRepository creates a new KV-backed program repository.
// onCorrupt may be nil.
func NewProgramRepository(store storage.KeyValueStore, onCorrupt repository.CorruptionHook) repository.ProgramRepository {
	return &programRepository{
		store:     store,
		onCorrupt: onCorrupt,
	}
}

func (r *programRepository) List(ctx context.Context) ([]domain.Program, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	programs, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	return programs, nil
}

func (r *programRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	programs, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(programs, id); i >= 0 {
		return &programs[i], nil
	}
	return nil, repository.ErrNotFound
}

func (r *programRepository) Save(ctx context.Context, program *domain.Program) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	programs, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(programs, program.ID); i >= 0 {
		programs[i] = *program
	} else {
		programs = append(programs, *program)
	}
	return writeJSON(ctx, r.store, repository.KeyPrograms, programs)
}

func (r *programRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	programs, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	i := indexOf(programs, id)
	if i < 0 {
		return repository.ErrNotFound
	}
	programs = append(programs[:i], programs[i+1:]...)
	if err := writeJSON(ctx, r.store, repository.KeyPrograms, programs); err != nil {
		return err
	}

	currentID, err := r.currentID(ctx)
	if err != nil {
		return err
	}
	if currentID == id {
		return r.store.Remove(ctx, repository.KeyCurrentProgramID)
	}
	return nil
}

func (r *programRepository) SetCurrentID(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	programs, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	if indexOf(programs, id) < 0 {
		return repository.ErrNotFound
	}
	return writeJSON(ctx, r.store, repository.KeyCurrentProgramID, id)
}

func (r *programRepository) Current(ctx context.Context) (*domain.Program, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	programs, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, repository.ErrNotFound
	}

	currentID, err := r.currentID(ctx)
	if err != nil {
		return nil, err
	}
	if currentID != "" {
		if i := indexOf(programs, currentID); i >= 0 {
			return &programs[i], nil
		}
		log.Warnf("current program %s is not in the catalog, falling back to %s", currentID, programs[0].ID)
	}
	return &programs[0], nil
}

// --- Internal Helpers ---

func (r *programRepository) catalog(ctx context.Context) ([]domain.Program, error) {
	return readJSON[[]domain.Program](ctx, r.store, repository.KeyPrograms, r.onCorrupt)
}

func (r *programRepository) currentID(ctx context.Context) (string, error) {
	return readJSON[string](ctx, r.store, repository.KeyCurrentProgramID, r.onCorrupt)
}

func indexOf(programs []domain.Program, id string) int {
	for i := range programs {
		if programs[i].ID == id {
			return i
		}
	}
	return -1
}
