package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToGenaiParts_PreservesOrderAndKinds(t *testing.T) {
	parts := toGenaiParts([]llm.Part{
		llm.TextPart("prompt"),
		llm.BlobPart([]byte{1, 2, 3}, "image/png"),
		llm.FilePart(llm.FileRef{URI: "files/abc", MIMEType: "application/pdf"}),
		llm.VideoPart("https://youtu.be/xyz"),
		{Kind: unknownPartKind},
	})

	require.Len(t, parts, 4)
	assert.Equal(t, "prompt", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, parts[1].InlineData.Data)
	require.NotNil(t, parts[2].FileData)
	assert.Equal(t, "files/abc", parts[2].FileData.FileURI)
	assert.Equal(t, "application/pdf", parts[2].FileData.MIMEType)
	require.NotNil(t, parts[3].FileData)
	assert.Equal(t, "https://youtu.be/xyz", parts[3].FileData.FileURI)
	assert.Empty(t, parts[3].FileData.MIMEType)
}

const unknownPartKind llm.PartKind = 99

func TestGenerateConfig_AttachesToolsOnlyWhenRequested(t *testing.T) {
	plain := generateConfig(llm.SessionConfig{Model: "m", Temperature: 0.9, MaxOutputTokens: 4000, SystemInstruction: "sys"})
	assert.Empty(t, plain.Tools)
	require.NotNil(t, plain.Temperature)
	assert.InDelta(t, 0.9, *plain.Temperature, 0.0001)
	assert.Equal(t, int32(4000), plain.MaxOutputTokens)
	require.NotNil(t, plain.SystemInstruction)
	assert.Equal(t, "sys", plain.SystemInstruction.Parts[0].Text)

	withTools := generateConfig(llm.SessionConfig{GoogleSearch: true, URLContext: true})
	require.Len(t, withTools.Tools, 2)
	assert.NotNil(t, withTools.Tools[0].GoogleSearch)
	assert.NotNil(t, withTools.Tools[1].URLContext)
	assert.Nil(t, withTools.SystemInstruction)
}

func TestGroundingSources_DeduplicatesAndCaps(t *testing.T) {
	var chunks []*genai.GroundingChunk
	for _, uri := range []string{"https://a", "https://a", "", "https://b", "https://c", "https://d", "https://e", "https://f"} {
		chunks = append(chunks, &genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: uri}})
	}
	chunks = append(chunks, nil, &genai.GroundingChunk{})
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: chunks},
	}}}

	assert.Equal(t, []string{"https://a", "https://b", "https://c", "https://d", "https://e"}, groundingSources(resp))
	assert.Nil(t, groundingSources(&genai.GenerateContentResponse{}))
	assert.Nil(t, groundingSources(nil))
}

func TestSessionSend_RoundTripsThroughGenerateContent(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotPath = r.URL.Path
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Halo juga!"}]},
			"groundingMetadata":{"groundingChunks":[{"web":{"uri":"https://sumber.example","title":"Sumber"}}]}}]}`)
	}))
	defer srv.Close()

	svc, err := newGeminiService(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)

	sess, err := svc.CreateSession(context.Background(), llm.SessionConfig{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "Jawab dengan bahasa Indonesia.",
		Temperature:       0.9,
		MaxOutputTokens:   4000,
		GoogleSearch:      true,
	})
	require.NoError(t, err)

	reply, err := sess.Send(context.Background(), []llm.Part{llm.TextPart("halo")})
	require.NoError(t, err)

	assert.Equal(t, "Halo juga!", reply.Text)
	assert.Equal(t, []string{"https://sumber.example"}, reply.Sources)
	assert.True(t, strings.HasSuffix(gotPath, "/models/gemini-2.5-flash:generateContent"), gotPath)
	assert.Contains(t, gotBody, `"text":"halo"`)
	assert.Contains(t, gotBody, "Jawab dengan bahasa Indonesia.")
	assert.Contains(t, gotBody, "googleSearch")
}

func TestNewGeminiService_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), "")
	require.Error(t, err)
}
