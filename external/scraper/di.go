package scraper

import (
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/scraper"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (scraper.Scraper, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTMLScraper(cfg.HTTPTimeout), nil
	})
}
