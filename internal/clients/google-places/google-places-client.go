package google_places_client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/rotisserie/eris"
)

const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

type GooglePlacesClient struct {
	url    string
	key    string
	client *http.Client
}

type FindPlaceResponse struct {
	Candidates   []Candidate `json:"candidates"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

type Candidate struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}

type Geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

func New(cfg *config.Config) *GooglePlacesClient {
	return &GooglePlacesClient{
		url:    cfg.Clients.GooglePlaces.Url,
		key:    cfg.Clients.GooglePlaces.ApiKey,
		client: &http.Client{Timeout: cfg.Clients.GooglePlaces.Timeout},
	}
}

func (this *GooglePlacesClient) Name() string {
	return "google_places"
}

// Enabled reports whether an API key is configured.
func (this *GooglePlacesClient) Enabled() bool {
	return this.key != ""
}

func (this *GooglePlacesClient) query(input string) url.Values {
	q := url.Values{}
	q.Set("input", input)
	q.Set("inputtype", "textquery")
	q.Set("fields", "formatted_address,name,geometry")
	q.Set("key", this.key)
	return q
}

// Search calls Find Place From Text and returns the raw response.
func (this *GooglePlacesClient) Search(ctx context.Context, input string) (*FindPlaceResponse, error) {
	parsedURL, e := url.Parse(this.url)
	if e != nil {
		return nil, eris.Wrap(e, "parse places url")
	}
	parsedURL.RawQuery = this.query(input).Encode()

	req, e := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if e != nil {
		return nil, eris.Wrap(e, "build places request")
	}
	req.Header.Set("Accept", "application/json")

	res, e := this.client.Do(req)
	if e != nil {
		return nil, requestError(e)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, eris.Wrapf(app.ErrGeocodeRequestFailed, "places API error %d: %s", res.StatusCode, string(body))
	}

	var place FindPlaceResponse
	if e := json.NewDecoder(res.Body).Decode(&place); e != nil {
		return nil, eris.Wrap(e, "decode places response")
	}

	return &place, nil
}

// FindPlace geocodes input and returns the first candidate.
func (this *GooglePlacesClient) FindPlace(ctx context.Context, input string) (*app.Place, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, eris.Wrap(app.ErrInvalidRequest, "empty places query")
	}

	place, err := this.Search(ctx, input)
	if err != nil {
		return nil, err
	}

	return ExtractPlace(place)
}

// ExtractPlace applies the status rules: OK with candidates succeeds,
// ZERO_RESULTS or an empty OK means the address needs refining, anything else
// is a failed request.
func ExtractPlace(place *FindPlaceResponse) (*app.Place, error) {
	switch place.Status {
	case StatusOK:
	case StatusZeroResults:
		return nil, app.ErrNoCandidates
	default:
		return nil, eris.Wrapf(app.ErrGeocodeRequestFailed, "places status %s: %s", place.Status, place.ErrorMessage)
	}

	if len(place.Candidates) == 0 {
		return nil, app.ErrNoCandidates
	}

	candidate := place.Candidates[0]
	return &app.Place{
		Name:             candidate.Name,
		FormattedAddress: candidate.FormattedAddress,
		Location: app.Coordinates{
			Lat: candidate.Geometry.Location.Lat,
			Lng: candidate.Geometry.Location.Lng,
		},
		Provider: "google_places",
	}, nil
}

// requestError keeps the transport cause but drops the request URL, which carries the API key.
func requestError(e error) error {
	var ue *url.Error
	if errors.As(e, &ue) {
		e = eris.Wrap(ue.Err, "places request")
	}
	return errors.Join(app.ErrGeocodeRequestFailed, e)
}
