package header_mapping_service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	column_matcher "github.com/init-pkg/meal-routes/internal/app/mapping/column"
	"github.com/init-pkg/meal-routes/internal/config"
)

// ExpectedColumn is a column the beneficiary sheet should contain.
type ExpectedColumn struct {
	Field    app.ColumnField `json:"field"`
	Target   string          `json:"target"`
	Required bool            `json:"-"`
}

// Suggester proposes header mappings for columns the matcher could not find.
type Suggester interface {
	SuggestColumns(ctx context.Context, header []string, columns []ExpectedColumn) ([]app.ColumnSuggestion, error)
}

type HeaderMappingService struct {
	expected    []ExpectedColumn
	mealOptions []string
	threshold   float64
	shingleSize int
	suggester   Suggester
	log         *slog.Logger
}

var _ app.HeaderMappingService = &HeaderMappingService{}

func New(cfg *config.Config, suggester Suggester, log *slog.Logger) *HeaderMappingService {
	s := cfg.Sheet

	expected := []ExpectedColumn{
		{Field: app.ColumnName, Target: s.NameColumn, Required: true},
		{Field: app.ColumnAddress, Target: s.AddressColumn, Required: true},
		{Field: app.ColumnLatitude, Target: s.LatitudeColumn},
		{Field: app.ColumnLongitude, Target: s.LongitudeColumn},
	}
	for _, meal := range s.MealColumns {
		expected = append(expected, ExpectedColumn{Field: app.MealField(meal), Target: meal})
	}

	if !s.AISuggestions {
		suggester = nil
	}

	return &HeaderMappingService{
		expected:    expected,
		mealOptions: append([]string(nil), s.MealColumns...),
		threshold:   s.Threshold,
		shingleSize: s.ShingleSize,
		suggester:   suggester,
		log:         log,
	}
}

func (s *HeaderMappingService) MealOptions() []string {
	return s.mealOptions
}

func (s *HeaderMappingService) Target(field app.ColumnField) string {
	for _, exp := range s.expected {
		if exp.Field == field {
			return exp.Target
		}
	}
	return ""
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve locates every expected column in header. A header is claimed by the
// first expected column that matches it. Columns that are not found get the
// nearest unclaimed header as a suggestion.
func (s *HeaderMappingService) Resolve(ctx context.Context, header []string) *app.ColumnReport {
	report := &app.ColumnReport{
		Header:  header,
		Columns: make(map[app.ColumnField]int, len(s.expected)),
	}

	claimed := make(map[int]struct{}, len(s.expected))
	var unresolved []ExpectedColumn

	for _, exp := range s.expected {
		if exp.Field.IsMeal() {
			report.MealFields = append(report.MealFields, exp.Field)
		}

		if strings.TrimSpace(exp.Target) == "" {
			report.Warnings = append(report.Warnings, fmt.Sprintf("no header configured for %s", exp.Field))
			if exp.Required {
				report.Missing = append(report.Missing, exp.Field)
			}
			continue
		}

		indices, names := s.available(header, claimed)

		m, ok := column_matcher.FindBestColumnK(exp.Target, names, s.shingleSize, s.threshold)
		if ok {
			idx := indices[m.Index]
			report.Columns[exp.Field] = idx
			claimed[idx] = struct{}{}

			s.log.Debug("Column resolved", "field", exp.Field, "header", header[idx], "score", m.Score)
			continue
		}

		if near, found := column_matcher.FindBestColumnK(exp.Target, names, s.shingleSize, 0); found {
			report.Suggestions = append(report.Suggestions, app.ColumnSuggestion{
				Field:  exp.Field,
				Target: exp.Target,
				Header: near.Header,
				Index:  indices[near.Index],
				Score:  near.Score,
				Source: app.SuggestionShingle,
			})
		}

		if exp.Required {
			report.Missing = append(report.Missing, exp.Field)
		} else {
			report.Warnings = append(report.Warnings, fmt.Sprintf("optional column %q not found", exp.Target))
		}
		unresolved = append(unresolved, exp)
	}

	if !report.Valid() && s.suggester != nil {
		suggestions, err := s.suggester.SuggestColumns(ctx, header, unresolved)
		if err != nil {
			s.log.Warn("AI header suggestions failed", "error", err)
		} else {
			report.Suggestions = append(report.Suggestions, suggestions...)
		}
	}

	if !report.Valid() {
		s.log.Info("Required columns missing", "missing", report.Missing, "header", header)
	}

	return report
}

// available returns the unclaimed, non-blank headers with their original indices.
func (s *HeaderMappingService) available(header []string, claimed map[int]struct{}) ([]int, []string) {
	indices := make([]int, 0, len(header))
	names := make([]string, 0, len(header))
	for i, h := range header {
		if _, ok := claimed[i]; ok {
			continue
		}
		if strings.TrimSpace(h) == "" {
			continue
		}
		indices = append(indices, i)
		names = append(names, h)
	}
	return indices, names
}
