package llm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"google.golang.org/genai"
)

const maxGroundingSources = 5

type GeminiService struct {
	client *genai.Client
}

func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	return newGeminiService(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func newGeminiService(ctx context.Context, cc *genai.ClientConfig) (*GeminiService, error) {
	if cc.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{client: client}, nil
}

func (g *GeminiService) CreateSession(ctx context.Context, cfg llm.SessionConfig) (llm.Session, error) {
	chat, err := g.client.Chats.Create(ctx, cfg.Model, generateConfig(cfg), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini chat: %w", err)
	}
	return &geminiSession{chat: chat}, nil
}

func generateConfig(cfg llm.SessionConfig) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	if cfg.SystemInstruction != "" {
		gc.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if cfg.GoogleSearch {
		gc.Tools = append(gc.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	if cfg.URLContext {
		gc.Tools = append(gc.Tools, &genai.Tool{URLContext: &genai.URLContext{}})
	}
	return gc
}

func (g *GeminiService) UploadFile(ctx context.Context, data []byte, mimeType string) (llm.FileRef, error) {
	f, err := g.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return llm.FileRef{}, fmt.Errorf("failed to upload file: %w", err)
	}
	ref := llm.FileRef{URI: f.URI, MIMEType: f.MIMEType}
	if ref.MIMEType == "" {
		ref.MIMEType = mimeType
	}
	return ref, nil
}

type geminiSession struct {
	chat *genai.Chat
}

func (s *geminiSession) Send(ctx context.Context, parts []llm.Part) (llm.Reply, error) {
	resp, err := s.chat.SendMessage(ctx, toGenaiParts(parts)...)
	if err != nil {
		return llm.Reply{}, err
	}
	return llm.Reply{Text: resp.Text(), Sources: groundingSources(resp)}, nil
}

func toGenaiParts(parts []llm.Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		switch p.Kind {
		case llm.PartText:
			out = append(out, *genai.NewPartFromText(p.Text))
		case llm.PartBlob:
			out = append(out, *genai.NewPartFromBytes(p.Data, p.MIMEType))
		case llm.PartFile:
			out = append(out, *genai.NewPartFromURI(p.URI, p.MIMEType))
		case llm.PartVideo:
			out = append(out, genai.Part{FileData: &genai.FileData{FileURI: p.URI}})
		}
	}
	return out
}

func groundingSources(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var sources []string
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if _, ok := seen[chunk.Web.URI]; ok {
			continue
		}
		seen[chunk.Web.URI] = struct{}{}
		sources = append(sources, chunk.Web.URI)
		if len(sources) == maxGroundingSources {
			break
		}
	}
	return sources
}
