package nominatim_client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/rotisserie/eris"
)

// NominatimClient queries the OpenStreetMap Nominatim /search route.
type NominatimClient struct {
	url       string
	userAgent string
	enabled   bool
	client    *http.Client
}

type SearchResult struct {
	PlaceID     int64  `json:"place_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func New(cfg *config.Config) *NominatimClient {
	return &NominatimClient{
		url:       cfg.Clients.Nominatim.Url,
		userAgent: cfg.Clients.Nominatim.UserAgent,
		enabled:   cfg.Clients.Nominatim.Enabled,
		client:    &http.Client{Timeout: cfg.Clients.Nominatim.Timeout},
	}
}

func (this *NominatimClient) Name() string {
	return "nominatim"
}

func (this *NominatimClient) Enabled() bool {
	return this.enabled
}

func (this *NominatimClient) Search(ctx context.Context, q string) ([]SearchResult, error) {
	parsedURL, e := url.Parse(this.url)
	if e != nil {
		return nil, eris.Wrap(e, "parse nominatim url")
	}

	query := parsedURL.Query()
	query.Set("q", q)
	query.Set("format", "json")
	query.Set("limit", "1")
	parsedURL.RawQuery = query.Encode()

	req, e := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if e != nil {
		return nil, eris.Wrap(e, "build nominatim request")
	}
	// Nominatim usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", this.userAgent)
	req.Header.Set("Accept", "application/json")

	res, e := this.client.Do(req)
	if e != nil {
		return nil, requestError(e)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, eris.Wrapf(app.ErrGeocodeRequestFailed, "nominatim error %d: %s", res.StatusCode, string(body))
	}

	var results []SearchResult
	if e := json.NewDecoder(res.Body).Decode(&results); e != nil {
		return nil, eris.Wrap(e, "decode nominatim response")
	}

	return results, nil
}

func (this *NominatimClient) FindPlace(ctx context.Context, q string) (*app.Place, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, eris.Wrap(app.ErrInvalidRequest, "empty nominatim query")
	}

	results, err := this.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, app.ErrNoCandidates
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "parse latitude %q", r.Lat)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "parse longitude %q", r.Lon)
	}

	return &app.Place{
		Name:             r.Name,
		FormattedAddress: r.DisplayName,
		Location:         app.Coordinates{Lat: lat, Lng: lng},
		Provider:         "nominatim",
	}, nil
}

// requestError keeps the transport cause but drops the request URL.
func requestError(e error) error {
	var ue *url.Error
	if errors.As(e, &ue) {
		e = eris.Wrap(ue.Err, "nominatim request")
	}
	return errors.Join(app.ErrGeocodeRequestFailed, e)
}
