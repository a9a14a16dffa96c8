package prompt

import (
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/scraper"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/search"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Assembler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		chat := do.MustInvoke[llm.ChatService](i)
		sessions := do.MustInvoke[*session.Store](i)
		searcher := do.MustInvoke[search.Searcher](i)
		sc := do.MustInvoke[scraper.Scraper](i)
		return NewAssembler(chat, sessions, searcher, sc, Settings{
			Model:             cfg.GeminiModel,
			DeepModel:         cfg.GeminiDeepModel,
			SystemInstruction: DefaultSystemInstruction,
			Temperature:       cfg.GeminiTemperature,
			MaxOutputTokens:   cfg.GeminiMaxOutputTokens,
			MaxFileSize:       cfg.MaxFileSizeBytes(),
			URLContext:        cfg.GeminiEnableURLContext,
			RequestTimeout:    cfg.AIRequestTimeout,
		}), nil
	})
}
