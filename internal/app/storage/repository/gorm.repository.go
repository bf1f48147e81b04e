package storage_repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

type GormRepository struct {
	db *gorm.DB
}

var _ Repository = &GormRepository{}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db}
}

func (this *GormRepository) SaveSheet(ctx context.Context, sheet *app.BeneficiarySheet) error {
	m, rows, err := toSheetModel(sheet)
	if err != nil {
		return err
	}

	return this.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return eris.Wrap(err, "insert sheet")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return eris.Wrap(err, "insert beneficiaries")
		}
		return nil
	})
}

func (this *GormRepository) FindSheet(ctx context.Context, id string) (*app.BeneficiarySheet, error) {
	db := this.db.WithContext(ctx)

	var m sheetModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(app.ErrNotFound, "sheet %s", id)
		}
		return nil, eris.Wrap(err, "select sheet")
	}

	var rows []beneficiaryModel
	if err := db.Where("sheet_id = ?", id).Order("sheet_row").Find(&rows).Error; err != nil {
		return nil, eris.Wrap(err, "select beneficiaries")
	}

	return fromSheetModel(&m, rows)
}

func (this *GormRepository) ListVehicles(ctx context.Context, ids []uint) ([]app.Vehicle, error) {
	q := this.db.WithContext(ctx).Order("id")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	var models []vehicleModel
	if err := q.Find(&models).Error; err != nil {
		return nil, eris.Wrap(err, "select vehicles")
	}

	out := make([]app.Vehicle, 0, len(models))
	for _, m := range models {
		v := app.Vehicle{ID: m.ID, Name: m.Name, Profile: m.Profile}
		if err := unmarshalJSON(m.Capacity, &v.Capacity); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// UpsertVehicles inserts vehicles by name, updating profile and capacity of
// existing ones.
func (this *GormRepository) UpsertVehicles(ctx context.Context, vehicles []app.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	models := make([]vehicleModel, 0, len(vehicles))
	for _, v := range vehicles {
		capacity, err := marshalList(v.Capacity)
		if err != nil {
			return err
		}
		models = append(models, vehicleModel{Name: v.Name, Profile: v.Profile, Capacity: capacity})
	}

	err := this.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile", "capacity"}),
		}).
		Create(&models).Error
	if err != nil {
		return eris.Wrap(err, "upsert vehicles")
	}
	return nil
}

func (this *GormRepository) SaveRoutePlan(ctx context.Context, plan *app.RoutePlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return eris.Wrap(err, "marshal route plan")
	}

	m := routePlanModel{ID: plan.ID, SheetID: plan.SheetID, Payload: payload, CreatedAt: plan.CreatedAt}
	if err := this.db.WithContext(ctx).Create(&m).Error; err != nil {
		return eris.Wrap(err, "insert route plan")
	}
	return nil
}

func (this *GormRepository) FindRoutePlan(ctx context.Context, id string) (*app.RoutePlan, error) {
	var m routePlanModel
	if err := this.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(app.ErrNotFound, "route plan %s", id)
		}
		return nil, eris.Wrap(err, "select route plan")
	}

	var plan app.RoutePlan
	if err := unmarshalJSON(m.Payload, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
