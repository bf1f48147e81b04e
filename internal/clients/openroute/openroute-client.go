package openroute_client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/rotisserie/eris"
)

// OpenRouteClient talks to the openrouteservice /optimization endpoint, which
// accepts VROOM formatted problems.
type OpenRouteClient struct {
	url    string
	key    string
	client *http.Client
}

// Location is [longitude, latitude].
type Location [2]float64

type Job struct {
	ID          int      `json:"id"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	Service     int      `json:"service,omitempty"`
	Delivery    []int    `json:"delivery,omitempty"`
}

type Vehicle struct {
	ID          int       `json:"id"`
	Description string    `json:"description,omitempty"`
	Profile     string    `json:"profile"`
	Start       *Location `json:"start,omitempty"`
	End         *Location `json:"end,omitempty"`
	Capacity    []int     `json:"capacity,omitempty"`
}

type Options struct {
	// G asks for encoded route geometries.
	G bool `json:"g"`
}

type OptimizationRequest struct {
	Jobs     []Job     `json:"jobs"`
	Vehicles []Vehicle `json:"vehicles"`
	Options  *Options  `json:"options,omitempty"`
}

type Summary struct {
	Cost       float64 `json:"cost"`
	Routes     int     `json:"routes"`
	Unassigned int     `json:"unassigned"`
	Delivery   []int   `json:"delivery"`
	Duration   float64 `json:"duration"`
	Distance   float64 `json:"distance"`
}

type Step struct {
	Type     string   `json:"type"`
	Location Location `json:"location"`
	// Newer VROOM versions report the job as id, older ones as job.
	ID       *int    `json:"id,omitempty"`
	Job      *int    `json:"job,omitempty"`
	Arrival  int     `json:"arrival"`
	Duration int     `json:"duration"`
	Distance float64 `json:"distance"`
}

// JobID returns the job served at this step.
func (s Step) JobID() (int, bool) {
	if s.Type != "job" {
		return 0, false
	}
	if s.ID != nil {
		return *s.ID, true
	}
	if s.Job != nil {
		return *s.Job, true
	}
	return 0, false
}

type Route struct {
	Vehicle  int     `json:"vehicle"`
	Cost     float64 `json:"cost"`
	Delivery []int   `json:"delivery"`
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
	Steps    []Step  `json:"steps"`
	Geometry string  `json:"geometry"`
}

type Unassigned struct {
	ID       int      `json:"id"`
	Location Location `json:"location"`
}

type OptimizationResponse struct {
	Code       int          `json:"code"`
	Error      string       `json:"error,omitempty"`
	Summary    Summary      `json:"summary"`
	Unassigned []Unassigned `json:"unassigned"`
	Routes     []Route      `json:"routes"`
}

type errorResponse struct {
	Error json.RawMessage `json:"error"`
}

func New(cfg *config.Config) *OpenRouteClient {
	return &OpenRouteClient{
		url:    cfg.Clients.OpenRoute.Url,
		key:    cfg.Clients.OpenRoute.ApiKey,
		client: &http.Client{Timeout: cfg.Clients.OpenRoute.Timeout},
	}
}

func (this *OpenRouteClient) Optimize(ctx context.Context, payload *OptimizationRequest) (*OptimizationResponse, error) {
	if len(payload.Jobs) == 0 {
		return nil, eris.New("optimization request has no jobs")
	}
	if len(payload.Vehicles) == 0 {
		return nil, eris.New("optimization request has no vehicles")
	}

	js, e := json.Marshal(payload)
	if e != nil {
		return nil, eris.Wrap(e, "marshal optimization request")
	}

	req, e := http.NewRequestWithContext(ctx, http.MethodPost, this.url, bytes.NewReader(js))
	if e != nil {
		return nil, eris.Wrap(e, "build optimization request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if this.key != "" {
		req.Header.Set("Authorization", this.key)
	}

	res, e := this.client.Do(req)
	if e != nil {
		return nil, eris.Wrap(e, "optimization request")
	}
	defer res.Body.Close()

	body, e := io.ReadAll(res.Body)
	if e != nil {
		return nil, eris.Wrap(e, "read optimization response")
	}

	if res.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && len(errResp.Error) > 0 {
			return nil, eris.Errorf("openroute error %d: %s", res.StatusCode, string(errResp.Error))
		}
		return nil, eris.Errorf("openroute error %d: %s", res.StatusCode, string(body))
	}

	var out OptimizationResponse
	if e := json.Unmarshal(body, &out); e != nil {
		return nil, eris.Wrap(e, "decode optimization response")
	}
	if out.Code != 0 {
		return nil, eris.Errorf("optimization failed with code %d: %s", out.Code, out.Error)
	}

	return &out, nil
}
