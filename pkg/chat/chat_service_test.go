package chat

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/pkg/freshness"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAnalyzer struct {
	persona string
	message string
	history []domain.ChatMessage
	err     error
}

func (a *recordingAnalyzer) AnalyzeImage(context.Context, []byte, string, bool) (domain.AnalysisResult, error) {
	return domain.AnalysisResult{}, nil
}

func (a *recordingAnalyzer) RefineAnalysis(context.Context, domain.AnalysisResult, freshness.SensoryData, bool) (domain.AnalysisResult, error) {
	return domain.AnalysisResult{}, nil
}

func (a *recordingAnalyzer) Chat(_ context.Context, persona string, message string, history []domain.ChatMessage) (string, error) {
	a.persona, a.message, a.history = persona, message, history
	if a.err != nil {
		return "", a.err
	}
	return "Sear it hot, then rest it five minutes.", nil
}

func TestSend(t *testing.T) {
	a := &recordingAnalyzer{}
	svc := NewChatService(a, zap.NewNop())

	res, err := svc.Send(context.Background(), domain.ChatRequest{
		Persona: domain.PersonaChef,
		Message: "  How do I cook a pork chop?  ",
		History: []domain.ChatMessage{{Role: domain.ChatRoleUser, Text: "hi"}, {Role: domain.ChatRoleModel, Text: "hello"}},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, domain.PersonaChef, a.persona)
	assert.Equal(t, "How do I cook a pork chop?", a.message)
	assert.Len(t, a.history, 2)

	assert.Equal(t, "Sear it hot, then rest it five minutes.", res.Reply)
	require.Len(t, res.History, 4)
	assert.Equal(t, domain.ChatMessage{Role: domain.ChatRoleUser, Text: "How do I cook a pork chop?"}, res.History[2])
	assert.Equal(t, domain.ChatRoleModel, res.History[3].Role)
}

func TestSend_TrimsHistory(t *testing.T) {
	a := &recordingAnalyzer{}
	svc := NewChatService(a, zap.NewNop())

	var history []domain.ChatMessage
	for i := range 30 {
		history = append(history, domain.ChatMessage{Role: domain.ChatRoleUser, Text: fmt.Sprintf("turn %d", i)})
	}

	_, err := svc.Send(context.Background(), domain.ChatRequest{Persona: domain.PersonaFriend, Message: "ok", History: history}, "")
	require.NoError(t, err)
	require.Len(t, a.history, maxHistory)
	assert.Equal(t, "turn 10", a.history[0].Text)
}

func TestSend_Errors(t *testing.T) {
	a := &recordingAnalyzer{}
	svc := NewChatService(a, zap.NewNop())

	_, err := svc.Send(context.Background(), domain.ChatRequest{Persona: "pirate", Message: "arr"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPersona)

	a.err = domain.ErrGeminiProcessingFailed
	_, err = svc.Send(context.Background(), domain.ChatRequest{Persona: domain.PersonaHousewife, Message: "cheap cuts?"}, "")
	assert.ErrorIs(t, err, domain.ErrGeminiProcessingFailed)
}
