package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const geminiPrompt = `You are a highly accurate OCR system specialized in handwritten exam papers.
Extract the text from the image of a handwritten response.

Rules:
1. Identify the boundaries between questions (Q1, Q2, Question 1) and group the text by question.
2. Do not correct spelling or grammar. Transcribe exactly as written.
3. Leave out text that is clearly crossed out.
4. Integrate insertions marked with arrows or carets into the sentence where they belong.
5. Write "[unclear]" for an illegible word instead of guessing.

Return the output strictly in the requested JSON format.`

// DefaultGeminiModel is used when GeminiClient.Model is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiClient struct {
	APIKey string
	Model  string
}

type geminiResponse struct {
	Responses []Segment `json:"responses"`
}

func geminiSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"responses": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"questionNumber": {Type: genai.TypeString, Description: "The label of the question (e.g. Q1)"},
						"originalText":   {Type: genai.TypeString, Description: "The verbatim transcribed text"},
						"confidence":     {Type: genai.TypeNumber, Description: "Confidence score from 0 to 1"},
					},
					Required: []string{"questionNumber", "originalText", "confidence"},
				},
			},
		},
		Required: []string{"responses"},
	}
}

// Method required by ocr.Client
// Returns Gemini segmented handwriting transcription Result
// Reference: https://ai.google.dev/gemini-api/docs/image-understanding
func (c GeminiClient) Run(image []byte) (*Result, error) {
	const service = "Gemini"
	if c.APIKey == "" {
		return nil, fmt.Errorf("gemini: no api key configured")
	}
	model := c.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(geminiPrompt),
			genai.NewPartFromBytes(image, http.DetectContentType(image)),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(),
	}

	start := time.Now()
	response, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	segments, err := parseGeminiText(response.Text())
	if err != nil {
		return nil, err
	}
	version := response.ModelVersion
	if version == "" {
		version = model
	}
	encoded, err := json.Marshal(response)
	return newResult(service, version, segments, start, encoded), err
}

// An empty body is an empty transcription, not an error.
func parseGeminiText(text string) ([]Segment, error) {
	if text == "" {
		return []Segment{}, nil
	}
	var parsed geminiResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("gemini: malformed response: %w", err)
	}
	if parsed.Responses == nil {
		return []Segment{}, nil
	}
	return parsed.Responses, nil
}
