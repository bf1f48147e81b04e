package beneficiary_sheet_service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	geocoding_service "github.com/init-pkg/meal-routes/internal/app/geocoding/service"
	map_render_service "github.com/init-pkg/meal-routes/internal/app/map-render/service"
	header_mapping_service "github.com/init-pkg/meal-routes/internal/app/mapping/header"
	storage_repository "github.com/init-pkg/meal-routes/internal/app/storage/repository"
	google_places_client "github.com/init-pkg/meal-routes/internal/clients/google-places"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeGeocoder struct {
	places map[string]app.Place
	err    error
	calls  []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*app.Place, error) {
	f.calls = append(f.calls, address)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.places[address]
	if !ok {
		return nil, eris.Wrap(app.ErrNoCandidates, "fake")
	}
	return &p, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Sheet: config.Sheet{
			NameColumn:      "beneficiary name",
			AddressColumn:   "address",
			LatitudeColumn:  "lattitude",
			LongitudeColumn: "longitude",
			MealColumns:     []string{"standard meals", "vegetarian meals"},
			Threshold:       0.9,
		},
	}
}

type fixture struct {
	service  *BeneficiarySheetService
	geocoder *fakeGeocoder
	repo     *storage_repository.MemoryRepository
}

func newFixture() *fixture {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	geocoder := &fakeGeocoder{places: map[string]app.Place{
		"2 High St": {FormattedAddress: "2 High St, London", Location: app.Coordinates{Lat: 51.51, Lng: -0.13}, Provider: "fake"},
	}}
	repo := storage_repository.NewMemoryRepository()

	return &fixture{
		service: New(
			header_mapping_service.New(testConfig(), nil, log),
			geocoder,
			repo,
			map_render_service.New(),
			log,
		),
		geocoder: geocoder,
		repo:     repo,
	}
}

func workbook(t *testing.T, rows map[int][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for n, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, n)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func beneficiaryWorkbook(t *testing.T) []byte {
	return workbook(t, map[int][]interface{}{
		1: {"Meal delivery list"},
		2: {"Beneficiary Name", "Address", "Lattitude", "Longitude", "Standard Meals", "Vegetarian Meals"},
		3: {"Ann", "1 Main St", 51.5, -0.12, 2, 0},
		4: {"Bob", "2 High St", nil, nil, "1", "x"},
		6: {"Cid", nil, nil, nil, 1.0},
	})
}

func TestImport(t *testing.T) {
	fx := newFixture()

	res, err := fx.service.Import(context.Background(), "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.NoError(t, err)
	require.NotNil(t, res.Sheet)
	require.True(t, res.Columns.Valid())

	sheet := res.Sheet
	assert.NotEmpty(t, sheet.ID)
	assert.Equal(t, "Sheet1", sheet.SheetName)
	assert.Equal(t, []string{"standard meals", "vegetarian meals"}, sheet.MealOptions)
	require.Len(t, sheet.Beneficiaries, 3)

	ann, bob, cid := sheet.Beneficiaries[0], sheet.Beneficiaries[1], sheet.Beneficiaries[2]

	assert.Equal(t, 3, ann.Row)
	assert.Equal(t, &app.Coordinates{Lat: 51.5, Lng: -0.12}, ann.Location)
	assert.False(t, ann.Geocoded)
	assert.Equal(t, []int{2, 0}, ann.Meals)

	assert.Equal(t, 4, bob.Row)
	assert.True(t, bob.Geocoded)
	assert.Equal(t, &app.Coordinates{Lat: 51.51, Lng: -0.13}, bob.Location)
	assert.Equal(t, "2 High St, London", bob.FormattedAddress)
	assert.Equal(t, []int{1, 0}, bob.Meals)

	assert.Equal(t, 6, cid.Row)
	assert.Nil(t, cid.Location)
	assert.Equal(t, []int{1, 0}, cid.Meals)

	assert.Equal(t, []string{"2 High St"}, fx.geocoder.calls)
	assert.Equal(t, []app.GeocodeFailure{{Row: 6, Reason: "address is empty"}}, sheet.Failures)

	require.Len(t, res.Columns.Warnings, 1)
	assert.Contains(t, res.Columns.Warnings[0], "row 4")

	stored, err := fx.repo.FindSheet(context.Background(), sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, sheet.Beneficiaries, stored.Beneficiaries)
}

func TestImport_WithoutGeocoding(t *testing.T) {
	fx := newFixture()

	res, err := fx.service.Import(context.Background(), "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Sheet)

	assert.Empty(t, fx.geocoder.calls)
	assert.Nil(t, res.Sheet.Beneficiaries[1].Location)
	assert.Empty(t, res.Sheet.Failures)
	assert.Len(t, res.Sheet.Located(), 1)
}

func TestImport_GeocodingFailuresAreRecorded(t *testing.T) {
	fx := newFixture()
	fx.geocoder.places = nil

	res, err := fx.service.Import(context.Background(), "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.NoError(t, err)

	require.Len(t, res.Sheet.Failures, 2)
	assert.Equal(t, app.GeocodeFailure{Row: 4, Address: "2 High St", Reason: app.ErrNoCandidates.Error()}, res.Sheet.Failures[0])
}

func TestImport_Canceled(t *testing.T) {
	fx := newFixture()
	fx.geocoder.err = eris.Wrap(context.Canceled, "fake")

	_, err := fx.service.Import(context.Background(), "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// slowPlacesService wires a real Places client against a server that never
// answers before the client gives up.
func slowPlacesService(t *testing.T, timeout time.Duration) *BeneficiarySheetService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.Clients.GooglePlaces = config.GooglePlaces{Url: srv.URL, ApiKey: "SECRET-API-KEY", Timeout: timeout}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	geocoder := geocoding_service.New(
		[]geocoding_service.Provider{google_places_client.New(cfg)},
		geocoding_service.NewMemoryCache(),
		log,
	)

	return New(
		header_mapping_service.New(cfg, nil, log),
		geocoder,
		storage_repository.NewMemoryRepository(),
		map_render_service.New(),
		log,
	)
}

func TestImport_ProviderTimeoutHidesRequestDetails(t *testing.T) {
	s := slowPlacesService(t, 50*time.Millisecond)

	res, err := s.Import(context.Background(), "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.NoError(t, err)
	require.NotNil(t, res.Sheet)
	require.Len(t, res.Sheet.Failures, 2)

	failure := res.Sheet.Failures[0]
	assert.Equal(t, 4, failure.Row)
	assert.Equal(t, app.ErrGeocodeRequestFailed.Error(), failure.Reason)
	for _, f := range res.Sheet.Failures {
		assert.False(t, strings.Contains(f.Reason, "SECRET-API-KEY"), "reason %q leaks the key", f.Reason)
	}
}

func TestImport_CanceledDuringProviderCall(t *testing.T) {
	s := slowPlacesService(t, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	res, err := s.Import(ctx, "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no candidates", eris.Wrap(app.ErrNoCandidates, "places"), app.ErrNoCandidates.Error()},
		{"no geocoder", app.ErrNoGeocoder, app.ErrNoGeocoder.Error()},
		{"request failed", errors.Join(app.ErrGeocodeRequestFailed, errors.New("https://x?key=secret")), app.ErrGeocodeRequestFailed.Error()},
		{"unknown", errors.New("https://x?key=secret"), "geocoding failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureReason(tt.err))
		})
	}
}

func TestImport_MissingRequiredColumns(t *testing.T) {
	fx := newFixture()
	data := workbook(t, map[int][]interface{}{
		1: {"Name", "Street"},
		2: {"Ann", "1 Main St"},
	})

	res, err := fx.service.Import(context.Background(), "bad.xlsx", data, app.ImportOptions{Geocode: true})
	require.NoError(t, err)

	assert.Nil(t, res.Sheet)
	require.NotNil(t, res.Columns)
	assert.False(t, res.Columns.Valid())
	assert.Contains(t, res.Columns.Missing, app.ColumnName)
	assert.Contains(t, res.Columns.Missing, app.ColumnAddress)
	assert.NotEmpty(t, res.Columns.Suggestions)
	assert.Empty(t, fx.geocoder.calls)
}

func TestImport_InvalidWorkbook(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.Import(context.Background(), "x.xlsx", []byte("not a workbook"), app.ImportOptions{})
	assert.True(t, errors.Is(err, app.ErrInvalidRequest))

	_, err = fx.service.Import(context.Background(), "empty.xlsx", workbook(t, nil), app.ImportOptions{})
	assert.True(t, errors.Is(err, app.ErrInvalidRequest))
}

func TestExport_RoundTrip(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	res, err := fx.service.Import(ctx, "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.NoError(t, err)

	data, err := fx.service.Export(ctx, res.Sheet.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, []string{
		"Beneficiary Name", "Address", "Lattitude", "Longitude",
		"Standard Meals", "Vegetarian Meals", "Formatted Address", "Geocoded",
	}, rows[0])
	assert.Equal(t, "Bob", rows[2][0])
	assert.Equal(t, "51.51", rows[2][2])
	assert.Equal(t, "-0.13", rows[2][3])

	again, err := fx.service.Import(ctx, "list_geocoded.xlsx", data, app.ImportOptions{})
	require.NoError(t, err)
	require.NotNil(t, again.Sheet)
	require.Len(t, again.Sheet.Beneficiaries, 3)
	assert.Equal(t, res.Sheet.Beneficiaries[1].Location, again.Sheet.Beneficiaries[1].Location)
	assert.Len(t, again.Sheet.Located(), 2)
}

func TestExport_MissingColumnsUseConfiguredHeaders(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	cfg.Sheet.NameColumn = "client"
	cfg.Sheet.AddressColumn = "street"
	cfg.Sheet.LatitudeColumn = "gps lat"
	cfg.Sheet.LongitudeColumn = "gps lng"
	cfg.Sheet.MealColumns = []string{"hot meals"}

	geocoder := &fakeGeocoder{places: map[string]app.Place{
		"1 Main St": {FormattedAddress: "1 Main St, London", Location: app.Coordinates{Lat: 51.5, Lng: -0.12}},
	}}
	s := New(header_mapping_service.New(cfg, nil, log), geocoder, storage_repository.NewMemoryRepository(), map_render_service.New(), log)

	data := workbook(t, map[int][]interface{}{
		1: {"Client", "Street"},
		2: {"Ann", "1 Main St"},
	})

	res, err := s.Import(ctx, "list.xlsx", data, app.ImportOptions{Geocode: true})
	require.NoError(t, err)
	require.NotNil(t, res.Sheet)

	out, err := s.Export(ctx, res.Sheet.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, []string{"Client", "Street", "gps lat", "gps lng", "hot meals", "Formatted Address", "Geocoded"}, rows[0])

	again, err := s.Import(ctx, "list_geocoded.xlsx", out, app.ImportOptions{})
	require.NoError(t, err)
	require.NotNil(t, again.Sheet)
	assert.Equal(t, 2, again.Sheet.Columns.Columns[app.ColumnLatitude])
	assert.Equal(t, 3, again.Sheet.Columns.Columns[app.ColumnLongitude])
	assert.Equal(t, &app.Coordinates{Lat: 51.5, Lng: -0.12}, again.Sheet.Beneficiaries[0].Location)
}

func TestGetAndRenderMap(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.service.Get(ctx, "missing")
	assert.True(t, errors.Is(err, app.ErrNotFound))

	_, err = fx.service.RenderMap(ctx, "missing")
	assert.True(t, errors.Is(err, app.ErrNotFound))

	res, err := fx.service.Import(ctx, "list.xlsx", beneficiaryWorkbook(t), app.ImportOptions{Geocode: true})
	require.NoError(t, err)

	got, err := fx.service.Get(ctx, res.Sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Sheet.ID, got.ID)

	page, err := fx.service.RenderMap(ctx, res.Sheet.ID)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Ann")
	assert.Contains(t, string(page), "leaflet")
}
