package header_mapping_service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
	"github.com/rotisserie/eris"
)

// HeaderFieldMapping maps one spreadsheet header to an expected field.
type HeaderFieldMapping struct {
	ExcelHeader     string  `json:"excel_header" jsonschema_description:"Spreadsheet column header, copied verbatim"`
	Field           string  `json:"field" jsonschema_description:"Expected field the column holds, or unknown"`
	ConfidenceScore float64 `json:"confidence_score" jsonschema:"minimum=0,maximum=1" jsonschema_description:"Mapping confidence from 0 to 1"`
}

type HeaderMappingResponse struct {
	Mappings []HeaderFieldMapping `json:"mappings" jsonschema_description:"Array of header to field mappings"`
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var HeaderMappingResponseSchema = GenerateSchema[HeaderMappingResponse]()

var schemaParam = openai.ResponseFormatJSONSchemaJSONSchemaParam{
	Name:        "beneficiary_header_mapping",
	Description: openai.String("Spreadsheet headers to beneficiary fields mapping"),
	Schema:      HeaderMappingResponseSchema,
	Strict:      openai.Bool(true),
}

// Compact INPUT_JSON for the prompt.
type mappingInput struct {
	Headers []string         `json:"headers"`
	Fields  []ExpectedColumn `json:"fields"`
}

type OpenAISuggester struct {
	openaiClient *openai.Client
	ctxTimeout   time.Duration
}

var _ Suggester = &OpenAISuggester{}

func NewOpenAISuggester(openaiClient *openai.Client) *OpenAISuggester {
	return &OpenAISuggester{
		openaiClient: openaiClient,
		ctxTimeout:   25 * time.Second,
	}
}

func (s *OpenAISuggester) SuggestColumns(
	ctx context.Context,
	header []string,
	columns []ExpectedColumn,
) ([]app.ColumnSuggestion, error) {
	if len(header) == 0 || len(columns) == 0 {
		return nil, nil
	}

	inputJSON, err := json.Marshal(mappingInput{Headers: header, Fields: columns})
	if err != nil {
		return nil, eris.Wrap(err, "build input json")
	}

	system := "You map spreadsheet column headers of a meal delivery beneficiary list to expected fields. " +
		"Each field has a target header name. Headers may be misspelled, abbreviated or in another language. " +
		"If no header fits a field, use \"unknown\". Return ONLY the JSON required by the schema."
	user := "Map headers to fields.\nINPUT_JSON:\n" + string(inputJSON)

	ctx, cancel := context.WithTimeout(ctx, s.ctxTimeout)
	defer cancel()

	chat, err := s.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Seed:  openai.Int(42),
		Model: openai.ChatModelGPT5Nano,
	})
	if err != nil {
		return nil, eris.Wrap(err, "openai chat completion")
	}
	if len(chat.Choices) == 0 {
		return nil, eris.New("openai: empty choices")
	}

	var resp HeaderMappingResponse
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &resp); err != nil {
		return nil, eris.Wrap(err, "unmarshal model output")
	}

	return suggestionsFromResponse(resp, header, columns), nil
}

// suggestionsFromResponse keeps mappings that name a requested field and a
// header that exists in the sheet.
func suggestionsFromResponse(resp HeaderMappingResponse, header []string, columns []ExpectedColumn) []app.ColumnSuggestion {
	targets := make(map[app.ColumnField]string, len(columns))
	for _, c := range columns {
		targets[c.Field] = c.Target
	}

	headerIdx := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, ok := headerIdx[key]; !ok && key != "" {
			headerIdx[key] = i
		}
	}

	var out []app.ColumnSuggestion
	for _, m := range resp.Mappings {
		field := app.ColumnField(m.Field)
		target, ok := targets[field]
		if !ok {
			continue
		}
		idx, ok := headerIdx[normalizeHeader(m.ExcelHeader)]
		if !ok {
			continue
		}

		out = append(out, app.ColumnSuggestion{
			Field:  field,
			Target: target,
			Header: header[idx],
			Index:  idx,
			Score:  clampScore(m.ConfidenceScore),
			Source: app.SuggestionOpenAI,
		})
	}

	return out
}

func clampScore(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return math.Round(x*100) / 100
	}
}
