package search

import (
	"context"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/search"
	"github.com/samber/do/v2"
	"google.golang.org/api/option"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (search.Searcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewCustomSearch(context.Background(), Options{
			EngineID: cfg.GoogleCSEID,
			Language: cfg.SearchLanguage,
			Country:  cfg.SearchCountry,
			Count:    cfg.SearchResultCount,
		}, option.WithAPIKey(cfg.GoogleAPIKey))
	})
}
