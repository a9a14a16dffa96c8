package llm

import (
	"context"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (llm.ChatService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewGeminiService(context.Background(), cfg.GeminiAPIKey)
	})
}
