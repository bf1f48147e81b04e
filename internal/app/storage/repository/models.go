package storage_repository

import (
	"encoding/json"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/rotisserie/eris"
)

type sheetModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	FileName    string
	SheetName   string
	MealOptions []byte `gorm:"type:jsonb"`
	Columns     []byte `gorm:"type:jsonb"`
	Failures    []byte `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

func (sheetModel) TableName() string { return "sheets" }

type beneficiaryModel struct {
	SheetID          string `gorm:"primaryKey;type:uuid"`
	SheetRow         int    `gorm:"primaryKey"`
	Name             string
	Address          string
	Lat              *float64
	Lng              *float64
	FormattedAddress string
	Geocoded         bool
	Meals            []byte `gorm:"type:jsonb"`
}

func (beneficiaryModel) TableName() string { return "beneficiaries" }

type vehicleModel struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	Profile  string
	Capacity []byte `gorm:"type:jsonb"`
}

func (vehicleModel) TableName() string { return "vehicles" }

type routePlanModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	SheetID   string `gorm:"type:uuid"`
	Payload   []byte `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (routePlanModel) TableName() string { return "route_plans" }

func toSheetModel(s *app.BeneficiarySheet) (*sheetModel, []beneficiaryModel, error) {
	m := &sheetModel{
		ID:        s.ID,
		FileName:  s.FileName,
		SheetName: s.SheetName,
		CreatedAt: s.CreatedAt,
	}

	var err error
	if m.MealOptions, err = marshalList(s.MealOptions); err != nil {
		return nil, nil, err
	}
	if m.Columns, err = json.Marshal(s.Columns); err != nil {
		return nil, nil, eris.Wrap(err, "marshal columns")
	}
	if m.Failures, err = marshalList(s.Failures); err != nil {
		return nil, nil, err
	}

	rows := make([]beneficiaryModel, 0, len(s.Beneficiaries))
	for _, b := range s.Beneficiaries {
		meals, err := marshalList(b.Meals)
		if err != nil {
			return nil, nil, err
		}
		r := beneficiaryModel{
			SheetID:          s.ID,
			SheetRow:         b.Row,
			Name:             b.Name,
			Address:          b.Address,
			FormattedAddress: b.FormattedAddress,
			Geocoded:         b.Geocoded,
			Meals:            meals,
		}
		if b.Location != nil {
			lat, lng := b.Location.Lat, b.Location.Lng
			r.Lat, r.Lng = &lat, &lng
		}
		rows = append(rows, r)
	}

	return m, rows, nil
}

func fromSheetModel(m *sheetModel, rows []beneficiaryModel) (*app.BeneficiarySheet, error) {
	s := &app.BeneficiarySheet{
		ID:        m.ID,
		FileName:  m.FileName,
		SheetName: m.SheetName,
		CreatedAt: m.CreatedAt,
	}

	if err := unmarshalJSON(m.MealOptions, &s.MealOptions); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(m.Columns, &s.Columns); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(m.Failures, &s.Failures); err != nil {
		return nil, err
	}

	s.Beneficiaries = make([]app.Beneficiary, 0, len(rows))
	for _, r := range rows {
		b := app.Beneficiary{
			Row:              r.SheetRow,
			Name:             r.Name,
			Address:          r.Address,
			FormattedAddress: r.FormattedAddress,
			Geocoded:         r.Geocoded,
		}
		if r.Lat != nil && r.Lng != nil {
			b.Location = &app.Coordinates{Lat: *r.Lat, Lng: *r.Lng}
		}
		if err := unmarshalJSON(r.Meals, &b.Meals); err != nil {
			return nil, err
		}
		s.Beneficiaries = append(s.Beneficiaries, b)
	}

	return s, nil
}

// marshalList encodes nil slices as [] to satisfy NOT NULL columns.
func marshalList[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "marshal json column")
	}
	return b, nil
}

func unmarshalJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrap(err, "unmarshal json column")
	}
	return nil
}
