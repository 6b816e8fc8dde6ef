package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
)

// MessageProcessor 在后台处理一条入站消息，webhook 的确认不等它
type MessageProcessor interface {
	HandleMessage(ctx context.Context, senderID string, text string)
}

// ShiftReader 提供已提交班次的查询
type ShiftReader interface {
	Read(ctx context.Context, name string, day string) (*domain.ShiftRecord, domain.Outcome, error)
}

type Handler struct {
	config    *config.Config
	shifts    ShiftReader
	processor MessageProcessor

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, shifts ShiftReader, processor MessageProcessor) *Handler {
	return &Handler{
		config:    cfg,
		shifts:    shifts,
		processor: processor,

		Mux: chi.NewRouter(),
	}
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 聊天平台的 webhook
	h.Mux.Route("/webhook", func(r chi.Router) {
		r.Get("/", h.VerifyWebhook)
		r.Post("/", h.ReceiveWebhook)
	})

	// 班表查询
	h.Mux.Get("/shifts/{name}/{day}", h.GetShift)
}
