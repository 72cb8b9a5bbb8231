package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/common"
	"github.com/Korixo/demolition-tracker/internal/entity"
)

// OpenAIConfig for the multimodal recognition client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string        // default https://api.openai.com/v1
	Model   string        // e.g., "gpt-4o"
	Timeout time.Duration // http client timeout
}

// OpenAIClient extracts candidate fields directly from the notice image by
// asking a vision-capable model for schema-constrained JSON.
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenAIClient validates configuration up front: a missing API key fails
// construction at startup rather than surfacing on the first upload.
func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "openai api key is not set", common.ErrRecognition)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

const extractionPrompt = `Extract demolition notice information from this image. Return JSON with:
- ownerName: property owner's name (if visible)
- buildingName: name/type of building
- location: location, zone, or region name (if visible)
- demolitionDate: date and time in ISO 8601 format
- extractedText: all visible text from the notice

If any field is not found, omit it except buildingName, demolitionDate and extractedText which are required.`

// candidatePayload is the wire shape the model is asked to return.
type candidatePayload struct {
	OwnerName      string `json:"ownerName,omitempty"`
	BuildingName   string `json:"buildingName"`
	Location       string `json:"location,omitempty"`
	DemolitionDate string `json:"demolitionDate"`
	ExtractedText  string `json:"extractedText"`
}

func (c *OpenAIClient) Recognize(ctx context.Context, image []byte) (Result, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.logger.Info("recognize.start", "req_id", rid, "model", c.cfg.Model, "image_bytes", len(image))

	schema := BuildCandidateJSONSchema()
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	body := map[string]any{
		"model":           c.cfg.Model,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": "Return ONLY JSON that matches this JSON Schema:\n" + mustJSON(schema)},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": extractionPrompt},
				{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
			}},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("recognize.http_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, fmt.Errorf("%w: %v", common.ErrRecognition, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("recognize.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return Result{}, fmt.Errorf("%w: decode response: %v", common.ErrRecognition, err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("recognize.no_choices", "req_id", rid)
		return Result{}, fmt.Errorf("%w: no choices in response", common.ErrRecognition)
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))
	if err := ValidateJSONAgainstSchema(schema, content); err != nil {
		cleaned, adjusted, sErr := SanitizeCandidateJSON(content, c.logger)
		if sErr != nil {
			c.logger.Error("recognize.sanitize_failed", "req_id", rid, "error", sErr)
			return Result{}, fmt.Errorf("%w: %v", common.ErrRecognition, err)
		}
		if vErr := ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.logger.Error("recognize.schema_validation_failed", "req_id", rid, "error", vErr)
			return Result{}, fmt.Errorf("%w: %v", common.ErrRecognition, vErr)
		}
		c.logger.Warn("recognize.lenient_sanitize_applied", "req_id", rid, "adjustments", adjusted)
		content = cleaned
	}

	var payload candidatePayload
	if err := json.Unmarshal(content, &payload); err != nil {
		return Result{}, fmt.Errorf("%w: unmarshal fields: %v", common.ErrRecognition, err)
	}

	fields := payload.toCandidate()
	c.logger.Info("recognize.ok",
		"req_id", rid,
		"building", fields.BuildingName,
		"date", payload.DemolitionDate,
		"text_len", len(payload.ExtractedText),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Text: payload.ExtractedText, Fields: fields}, nil
}

// toCandidate converts the wire payload, parsing the ISO-8601 date. A date
// the model formatted badly enough to defeat the schema-permitted layouts
// is left zero for the normalizer to default.
func (p candidatePayload) toCandidate() *entity.CandidateRecord {
	cand := &entity.CandidateRecord{
		BuildingName:  p.BuildingName,
		ExtractedText: p.ExtractedText,
	}
	if p.OwnerName != "" {
		v := p.OwnerName
		cand.OwnerName = &v
	}
	if p.Location != "" {
		v := p.Location
		cand.Location = &v
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, p.DemolitionDate); err == nil {
			cand.DemolitionDate = t
			break
		}
	}
	return cand
}

func (c *OpenAIClient) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("openai response body close error", "error", cerr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(string(data), 2048))
	}
	return data, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
