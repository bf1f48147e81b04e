package app

import (
	"context"
	"strings"
	"time"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point is inside WGS84 bounds. The null island
// (0,0) is treated as a blank spreadsheet cell.
func (c Coordinates) Valid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Beneficiary struct {
	// Row is the 1-based spreadsheet row, unique within a sheet.
	Row              int          `json:"row"`
	Name             string       `json:"name"`
	Address          string       `json:"address"`
	Location         *Coordinates `json:"location,omitempty"`
	FormattedAddress string       `json:"formatted_address,omitempty"`
	Geocoded         bool         `json:"geocoded"`
	// Meals holds one count per configured meal option.
	Meals []int `json:"meals"`
}

func (b *Beneficiary) TotalMeals() int {
	total := 0
	for _, n := range b.Meals {
		total += n
	}
	return total
}

type GeocodeFailure struct {
	Row     int    `json:"row"`
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

type BeneficiarySheet struct {
	ID            string           `json:"id"`
	FileName      string           `json:"file_name"`
	SheetName     string           `json:"sheet_name"`
	MealOptions   []string         `json:"meal_options"`
	Columns       *ColumnReport    `json:"columns"`
	Beneficiaries []Beneficiary    `json:"beneficiaries"`
	Failures      []GeocodeFailure `json:"failures,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Located returns the beneficiaries that have coordinates.
func (s *BeneficiarySheet) Located() []Beneficiary {
	out := make([]Beneficiary, 0, len(s.Beneficiaries))
	for _, b := range s.Beneficiaries {
		if b.Location != nil {
			out = append(out, b)
		}
	}
	return out
}

type ColumnField string

const (
	ColumnName      ColumnField = "name"
	ColumnAddress   ColumnField = "address"
	ColumnLatitude  ColumnField = "latitude"
	ColumnLongitude ColumnField = "longitude"
)

const mealFieldPrefix = "meal:"

func MealField(option string) ColumnField {
	return ColumnField(mealFieldPrefix + option)
}

func (f ColumnField) IsMeal() bool {
	return strings.HasPrefix(string(f), mealFieldPrefix)
}

// MealOption returns the option name of a meal field.
func (f ColumnField) MealOption() string {
	return strings.TrimPrefix(string(f), mealFieldPrefix)
}

type SuggestionSource string

const (
	SuggestionShingle SuggestionSource = "shingle"
	SuggestionOpenAI  SuggestionSource = "openai"
)

type ColumnSuggestion struct {
	Field  ColumnField      `json:"field"`
	Target string           `json:"target"`
	Header string           `json:"header"`
	Index  int              `json:"index"`
	Score  float64          `json:"score"`
	Source SuggestionSource `json:"source"`
}

// ColumnReport is the outcome of resolving expected columns against an
// uploaded header row.
type ColumnReport struct {
	Header      []string            `json:"header"`
	Columns     map[ColumnField]int `json:"columns"`
	MealFields  []ColumnField       `json:"meal_fields"`
	Missing     []ColumnField       `json:"missing,omitempty"`
	Suggestions []ColumnSuggestion  `json:"suggestions,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Valid is false when a required column was not found.
func (r *ColumnReport) Valid() bool {
	return r != nil && len(r.Missing) == 0
}

// Index returns the resolved column of f.
func (r *ColumnReport) Index(f ColumnField) (int, bool) {
	idx, ok := r.Columns[f]
	return idx, ok
}

type ImportOptions struct {
	Geocode bool
}

// ImportResult carries the column report even when the sheet was rejected;
// Sheet is nil in that case.
type ImportResult struct {
	Columns *ColumnReport     `json:"columns"`
	Sheet   *BeneficiarySheet `json:"sheet,omitempty"`
}

type BeneficiarySheetService interface {
	Import(ctx context.Context, fileName string, file []byte, opts ImportOptions) (*ImportResult, error)
	Get(ctx context.Context, id string) (*BeneficiarySheet, error)
	Export(ctx context.Context, id string) ([]byte, error)
	RenderMap(ctx context.Context, id string) ([]byte, error)
}

type HeaderMappingService interface {
	Resolve(ctx context.Context, header []string) *ColumnReport
	MealOptions() []string
	// Target returns the configured header text for field, or "" when the
	// field is not expected.
	Target(field ColumnField) string
}

type Place struct {
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address"`
	Location         Coordinates `json:"location"`
	Provider         string      `json:"provider"`
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Place, error)
}

type SheetRepository interface {
	SaveSheet(ctx context.Context, sheet *BeneficiarySheet) error
	FindSheet(ctx context.Context, id string) (*BeneficiarySheet, error)
}
