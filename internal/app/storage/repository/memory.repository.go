package storage_repository

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
)

// MemoryRepository keeps everything in process. Values are deep-copied on
// the way in and out.
type MemoryRepository struct {
	mu       sync.RWMutex
	sheets   map[string]*app.BeneficiarySheet
	plans    map[string]*app.RoutePlan
	vehicles []app.Vehicle
	nextID   uint
}

var _ Repository = &MemoryRepository{}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sheets: make(map[string]*app.BeneficiarySheet),
		plans:  make(map[string]*app.RoutePlan),
		nextID: 1,
	}
}

func clone[T any](v *T) (*T, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "clone")
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "clone")
	}
	return &out, nil
}

func (this *MemoryRepository) SaveSheet(_ context.Context, sheet *app.BeneficiarySheet) error {
	c, err := clone(sheet)
	if err != nil {
		return err
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if _, ok := this.sheets[sheet.ID]; ok {
		return eris.Errorf("sheet %s already exists", sheet.ID)
	}
	this.sheets[sheet.ID] = c
	return nil
}

func (this *MemoryRepository) FindSheet(_ context.Context, id string) (*app.BeneficiarySheet, error) {
	this.mu.RLock()
	s, ok := this.sheets[id]
	this.mu.RUnlock()

	if !ok {
		return nil, eris.Wrapf(app.ErrNotFound, "sheet %s", id)
	}
	return clone(s)
}

func (this *MemoryRepository) ListVehicles(_ context.Context, ids []uint) ([]app.Vehicle, error) {
	this.mu.RLock()
	defer this.mu.RUnlock()

	out := make([]app.Vehicle, 0, len(this.vehicles))
	for _, v := range this.vehicles {
		if len(ids) > 0 && !slices.Contains(ids, v.ID) {
			continue
		}
		v.Capacity = slices.Clone(v.Capacity)
		out = append(out, v)
	}
	return out, nil
}

func (this *MemoryRepository) UpsertVehicles(_ context.Context, vehicles []app.Vehicle) error {
	this.mu.Lock()
	defer this.mu.Unlock()

	for _, v := range vehicles {
		v.Capacity = slices.Clone(v.Capacity)

		idx := slices.IndexFunc(this.vehicles, func(e app.Vehicle) bool { return e.Name == v.Name })
		if idx >= 0 {
			v.ID = this.vehicles[idx].ID
			this.vehicles[idx] = v
			continue
		}

		v.ID = this.nextID
		this.nextID++
		this.vehicles = append(this.vehicles, v)
	}
	return nil
}

func (this *MemoryRepository) SaveRoutePlan(_ context.Context, plan *app.RoutePlan) error {
	c, err := clone(plan)
	if err != nil {
		return err
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	this.plans[plan.ID] = c
	return nil
}

func (this *MemoryRepository) FindRoutePlan(_ context.Context, id string) (*app.RoutePlan, error) {
	this.mu.RLock()
	p, ok := this.plans[id]
	this.mu.RUnlock()

	if !ok {
		return nil, eris.Wrapf(app.ErrNotFound, "route plan %s", id)
	}
	return clone(p)
}
