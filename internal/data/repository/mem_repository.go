package repository

import (
	"context"
	"sync"

	"bus-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memRepository keeps values, never caller pointers; every read hands out a copy.
type memRepository[T any] struct {
	mu    sync.RWMutex
	data  map[uuid.UUID]T
	order []uuid.UUID
	name  string
	id    func(item *T) uuid.UUID
	clone func(item T) T
	log   *zap.Logger
}

func newMemRepository[T any](name string, id func(*T) uuid.UUID, clone func(T) T, log *zap.Logger) *memRepository[T] {
	if clone == nil {
		clone = func(item T) T { return item }
	}
	return &memRepository[T]{
		data:  make(map[uuid.UUID]T),
		name:  name,
		id:    id,
		clone: clone,
		log:   log.With(zap.String("repository", name)),
	}
}

func (r *memRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	copied := r.clone(item)
	return &copied, nil
}

func (r *memRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.Query(ctx, func(*T) bool { return true })
}

func (r *memRepository[T]) Add(ctx context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.id(item)
	if _, exists := r.data[id]; exists {
		return apperror.New(apperror.KindConflict, "%s %s already exists", r.name, id.String())
	}

	r.data[id] = r.clone(*item)
	r.order = append(r.order, id)
	r.log.Debug("Record added", zap.String("id", id.String()))
	return nil
}

func (r *memRepository[T]) Update(ctx context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.id(item)
	if _, exists := r.data[id]; !exists {
		return apperror.New(apperror.KindNotFound, "%s %s not found", r.name, id.String())
	}

	r.data[id] = r.clone(*item)
	return nil
}

func (r *memRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return apperror.New(apperror.KindNotFound, "%s %s not found", r.name, id.String())
	}

	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Query returns copies of the matching records in insertion order.
func (r *memRepository[T]) Query(ctx context.Context, match func(*T) bool) ([]*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*T
	for _, id := range r.order {
		copied := r.clone(r.data[id])
		if match(&copied) {
			items = append(items, &copied)
		}
	}
	return items, nil
}
