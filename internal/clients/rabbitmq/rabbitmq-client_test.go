package rabbitmq_client

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestNewRoutePlanCreatedEvent(t *testing.T) {
	plan := &app.RoutePlan{
		ID:      "p1",
		SheetID: "s1",
		Routes: []app.Route{
			{Stops: []app.RouteStop{{Type: app.StopStart}, {Type: app.StopJob}, {Type: app.StopJob}, {Type: app.StopEnd}}},
			{Stops: []app.RouteStop{{Type: app.StopStart}, {Type: app.StopJob}, {Type: app.StopEnd}}},
		},
		Unassigned: []int{7},
		Skipped:    []int{4, 5},
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	event := NewRoutePlanCreatedEvent(plan)

	assert.Equal(t, "p1", event.PlanID)
	assert.Equal(t, 2, event.Vehicles)
	assert.Equal(t, 3, event.Stops)
	assert.Equal(t, []int{7}, event.Unassigned)
	assert.Equal(t, []int{4, 5}, event.Skipped)
}

func TestPublishRoutePlan_Disabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{}
	p := New(lc, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, p.Enabled())
	require.NoError(t, p.PublishRoutePlan(context.Background(), &app.RoutePlan{ID: "p1"}))
	require.NoError(t, p.Close())
}
