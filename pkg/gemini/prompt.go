package gemini

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/pkg/freshness"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

const analyzePrompt = `You are a food technology expert. Analyse this photo of raw meat and grade its freshness.

LEVELS (1-5):
1. Excellent: perfect colour, dry surface, firm and elastic.
2. Good: good colour, fine for cooking.
3. Average: slight oxidation, darker colour, slightly wet surface.
4. Warning: pale or bruised colour, slimy drip, faint odour signs.
5. Spoiled: rotting, green-black patches, slimy, dangerous.

Biochemical cues:
- Pork: light pink (fresh) vs grey/brown (stale).
- Beef: cherry red (fresh) vs dark brown (oxidised).
- Chicken: pink/ivory (fresh) vs yellow, slimy or grey (spoiled).

Fraud warning: meat that is unnaturally red (chemicals) or glossy with water (injected) must be level 4 or 5.

Give exactly four visual cues: colour, fat, texture, moisture. Keep the summary short, empathetic and actionable.
Return JSON matching the schema.`

// AnalysisSchema is the JSON response schema for graded analyses.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"meatType": {
				Type:        genai.TypeString,
				Enum:        []string{domain.MeatPork, domain.MeatBeef, domain.MeatChicken, domain.MeatUnknown},
				Description: "Type of raw meat in the photo.",
			},
			"freshnessScore": {
				Type:        genai.TypeNumber,
				Description: "Score from 0 to 100 (0 = rotten, 100 = just slaughtered).",
			},
			"freshnessLevel": {
				Type:        genai.TypeInteger,
				Description: "Strict grading: 1 excellent, 2 good, 3 average, 4 warning, 5 spoiled.",
			},
			"safetyStatus": {
				Type: genai.TypeString,
				Enum: []string{
					string(freshness.SafetyFresh),
					string(freshness.SafetyCaution),
					string(freshness.SafetySpoiled),
					string(freshness.SafetyUnknown),
				},
				Description: "Final safety verdict.",
			},
			"visualCues": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Four specific observations: colour, fat, texture, moisture.",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "Concise, actionable expert advice.",
			},
		},
		Required: []string{"meatType", "freshnessScore", "freshnessLevel", "safetyStatus", "visualCues", "summary"},
	}
}

// RefinePrompt asks the model to merge an image verdict with a sensory
// survey. Smell and sliminess outrank the photo.
func RefinePrompt(initial domain.AnalysisResult, s freshness.SensoryData) string {
	return fmt.Sprintf(`You are a food safety expert.

1. PREVIOUS IMAGE ANALYSIS:
- Meat type: %s
- Image score: %d
- Image level: %d

2. SENSORY DATA FROM THE USER (0-100, higher is worse):
- Smell: %d/100 (high = foul)
- Texture: %d/100 (high = mushy, not elastic)
- Sliminess: %d/100 (high = sticky slime)
- Drip loss: %d/100 (high = cloudy liquid)

3. TASK:
Combine the image and sensory data into a FINAL verdict.

RULES:
- Sensory data (smell and sliminess) outweighs the image.
- If smell > %d or sliminess > %d the level MUST be 4 or 5, however good the image looks.
- If the senses are good (low scores) but the image is poor, settle on a middle score and warn the user.

Return JSON in the same schema, and rewrite visualCues so they mention the user's input (for example "Strong odour confirmed").`,
		initial.MeatType, initial.FreshnessScore, initial.FreshnessLevel,
		s.Smell, s.Texture, s.Moisture, s.Drip,
		freshness.SensoryThreshold, freshness.SensoryThreshold)
}

var personaInstructions = map[string]string{
	domain.PersonaChef: "You are a demanding but devoted head chef. You specialise in cooking technique and menu planning " +
		"and use professional vocabulary (sous-vide, deglaze, sear). Suggest menus from the user's ingredients, give detailed " +
		"steps with times and temperatures, and share prep tricks for removing odours from meat.",
	domain.PersonaHousewife: "You are a thrifty, resourceful home cook. Be friendly and practical. Explain how to pick good " +
		"meat at the market, how to bargain, and how to store food so it lasts longer and costs less.",
	domain.PersonaFriend: "You are the user's foodie best friend. You know the trendy places and always keep things light. " +
		"Chat about food, tell food jokes and share restaurant reviews.",
}

func PersonaInstruction(persona string) (string, bool) {
	s, ok := personaInstructions[persona]
	return s, ok
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

type rawAnalysis struct {
	MeatType       string   `json:"meatType"`
	FreshnessScore float64  `json:"freshnessScore"`
	FreshnessLevel float64  `json:"freshnessLevel"`
	SafetyStatus   string   `json:"safetyStatus"`
	VisualCues     []string `json:"visualCues"`
	Summary        string   `json:"summary"`
}

// ParseAnalysis decodes a model reply, tolerating markdown fences around the
// JSON, and clamps every field into range.
// verdictLevel rounds a model level into 1..5. Anything missing or out of
// range is graded spoiled.
func verdictLevel(f float64) (freshness.Level, bool) {
	r := math.Round(f)
	if math.IsNaN(r) || r < float64(freshness.LevelExcellent) || r > float64(freshness.LevelSpoiled) {
		return freshness.LevelSpoiled, false
	}
	return freshness.Level(r), true
}

func ParseAnalysis(text string) (domain.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if m := jsonObject.FindString(text); m != "" {
		text = m
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", domain.ErrGeminiProcessingFailed, err)
	}

	level, known := verdictLevel(raw.FreshnessLevel)
	score := int(math.Round(max(0, min(100, raw.FreshnessScore))))
	if !known {
		score = min(score, freshness.ScoreForLevel(level))
	}

	meat := strings.ToLower(strings.TrimSpace(raw.MeatType))
	switch meat {
	case domain.MeatPork, domain.MeatBeef, domain.MeatChicken:
	default:
		meat = domain.MeatUnknown
	}

	status := freshness.SafetyStatus(strings.ToLower(strings.TrimSpace(raw.SafetyStatus)))
	switch status {
	case freshness.SafetyFresh, freshness.SafetyCaution, freshness.SafetySpoiled:
	default:
		status = freshness.SafetyStatusForLevel(level)
	}
	if !known {
		status = freshness.SafetyStatusForLevel(level)
	}

	cues := make([]string, 0, len(raw.VisualCues))
	for _, c := range raw.VisualCues {
		if c = strings.TrimSpace(c); c != "" {
			cues = append(cues, c)
		}
	}

	return domain.AnalysisResult{
		MeatType:       meat,
		FreshnessScore: score,
		FreshnessLevel: int(level),
		SafetyStatus:   string(status),
		VisualCues:     cues,
		Summary:        strings.TrimSpace(raw.Summary),
	}, nil
}
