package attachment

import (
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/attachment"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (attachment.Downloader, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTTPDownloader(cfg.HTTPTimeout), nil
	})
}
