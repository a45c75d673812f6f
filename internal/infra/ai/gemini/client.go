package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/bryanwahyu/laporkerja/internal/domain/ai"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	"github.com/bryanwahyu/laporkerja/internal/infra/ai/prompt"
)

const defaultModel = "gemini-2.5-flash"

// Client oracle berbasis Gemini dengan response schema terstruktur
type Client struct {
	genai *genai.Client
	Model string
}

// Options opsional untuk NewClient
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient buat client Gemini API (bukan Vertex)
func NewClient(ctx context.Context, apiKey, model string, opts Options) (*Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{genai: c, Model: model}, nil
}

// ResponseSchema schema JSON balasan oracle
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isRejected":           {Type: genai.TypeBoolean, Description: prompt.DescIsRejected},
			"rejectionReason":      {Type: genai.TypeString, Description: prompt.DescRejectionReason},
			"completionPercentage": {Type: genai.TypeNumber, Description: prompt.DescCompletion},
			"summary":              {Type: genai.TypeString, Description: prompt.DescSummary},
			"details": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: prompt.DescDetails,
			},
			"recommendations": {Type: genai.TypeString, Description: prompt.DescRecommendations},
		},
		Required: []string{"isRejected", "completionPercentage", "summary", "details", "recommendations"},
	}
}

// Analyze kirim foto inline + instruksi, balikan teks JSON
func (c *Client) Analyze(ctx context.Context, img media.EncodedImage) (string, error) {
	data, err := img.Bytes()
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	mt := img.MediaType()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mt),
			genai.NewPartFromText(prompt.GetInstruction()),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.Model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ai.ErrEmptyReply
	}
	return text, nil
}
