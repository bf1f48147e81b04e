package openai_client

import (
	"time"

	"github.com/init-pkg/meal-routes/internal/config"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// New builds the client used for header mapping suggestions. Requests are
// only sent when SHEET_AI_SUGGESTIONS is on.
func New(cfg *config.Config) *openai.Client {
	var cl = openai.NewClient(
		option.WithAPIKey(cfg.Clients.OpenAI.ApiKey),
		option.WithMaxRetries(2),
		option.WithRequestTimeout(30*time.Second),
	)

	return &cl
}
