package session

import (
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Store, error) {
		chat := do.MustInvoke[llm.ChatService](i)
		return NewStore(chat), nil
	})
}
