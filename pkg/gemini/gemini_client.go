package gemini

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/internal/utils"
	"MeatFresh-Backend/pkg/freshness"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel    = "gemini-2.5-flash"
	defaultProModel = "gemini-2.5-pro"
	requestTimeout  = 60 * time.Second
)

type (
	// Analyzer grades meat photos and answers cooking chats.
	Analyzer interface {
		AnalyzeImage(ctx context.Context, image []byte, mimeType string, pro bool) (domain.AnalysisResult, error)
		RefineAnalysis(ctx context.Context, initial domain.AnalysisResult, sensory freshness.SensoryData, pro bool) (domain.AnalysisResult, error)
		Chat(ctx context.Context, persona string, message string, history []domain.ChatMessage) (string, error)
	}

	geminiClient struct {
		client   *genai.Client
		model    string
		proModel string
		log      *zap.Logger
	}
)

func NewGeminiClient(ctx context.Context, log *zap.Logger) (Analyzer, error) {
	apiKey := utils.GetConfig("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := utils.GetConfig("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}
	proModel := utils.GetConfig("GEMINI_PRO_MODEL")
	if proModel == "" {
		proModel = defaultProModel
	}

	return &geminiClient{
		client:   client,
		model:    model,
		proModel: proModel,
		log:      log,
	}, nil
}

func (g *geminiClient) modelFor(pro bool) string {
	if pro {
		return g.proModel
	}
	return g.model
}

func temperatureFor(pro bool) *float32 {
	if pro {
		return genai.Ptr[float32](0.2)
	}
	return genai.Ptr[float32](0.4)
}

func (g *geminiClient) AnalyzeImage(ctx context.Context, image []byte, mimeType string, pro bool) (domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(analyzePrompt),
		}, genai.RoleUser),
	}

	text, err := g.generate(ctx, g.modelFor(pro), contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   AnalysisSchema(),
		Temperature:      temperatureFor(pro),
	})
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result, err := ParseAnalysis(text)
	if err != nil {
		g.log.Warn("unparseable analysis", zap.String("raw", text), zap.Error(err))
		return domain.AnalysisResult{}, err
	}
	result.UsedProModel = pro
	return result, nil
}

func (g *geminiClient) RefineAnalysis(ctx context.Context, initial domain.AnalysisResult, sensory freshness.SensoryData, pro bool) (domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(RefinePrompt(initial, sensory), genai.RoleUser),
	}

	text, err := g.generate(ctx, g.modelFor(pro), contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   AnalysisSchema(),
		Temperature:      temperatureFor(pro),
	})
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result, err := ParseAnalysis(text)
	if err != nil {
		g.log.Warn("unparseable refinement", zap.String("raw", text), zap.Error(err))
		return domain.AnalysisResult{}, err
	}
	result.UsedProModel = pro
	return result, nil
}

func (g *geminiClient) Chat(ctx context.Context, persona string, message string, history []domain.ChatMessage) (string, error) {
	instruction, ok := PersonaInstruction(persona)
	if !ok {
		return "", domain.ErrInvalidPersona
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	contents := HistoryContents(history)
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	return g.generate(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	})
}

func (g *geminiClient) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		g.log.Error("gemini request failed", zap.String("model", model), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrGeminiProcessingFailed, err)
	}

	text := strings.TrimSpace(resp.Text())
	g.log.Debug("gemini response",
		zap.String("model", model),
		zap.Duration("took", time.Since(start)),
		zap.Int("chars", len(text)))

	if text == "" {
		return "", domain.ErrGeminiProcessingFailed
	}
	return text, nil
}

// HistoryContents converts chat history into model contents, skipping blank
// turns and unknown roles.
func HistoryContents(history []domain.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		switch m.Role {
		case domain.ChatRoleUser:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleUser))
		case domain.ChatRoleModel:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleModel))
		}
	}
	return contents
}
