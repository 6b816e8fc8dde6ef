package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
)

// Extractor 把自由文本抽取成候选排班操作，失败时返回空列表
type Extractor interface {
	Extract(ctx context.Context, text string) []domain.ShiftCandidate
}

// NameResolver 把聊天平台的 sender ID 解析成称呼用的名字
type NameResolver interface {
	UserName(ctx context.Context, senderID string) string
}

// Processor 串起一条入站消息的完整处理流程：
// 抽取候选操作、解析发送者名字、逐条调度、把合并回复发布到回复队列。
// webhook 的确认响应不在这条路径上，处理再慢也不会拖住确认
type Processor struct {
	cfg          *config.Config
	dispatcher   *Dispatcher
	extractor    Extractor
	names        NameResolver
	replyChannel *amqp.Channel
}

func NewProcessor(cfg *config.Config, dispatcher *Dispatcher, extractor Extractor, names NameResolver, replyCh *amqp.Channel) *Processor {
	return &Processor{
		cfg:          cfg,
		dispatcher:   dispatcher,
		extractor:    extractor,
		names:        names,
		replyChannel: replyCh,
	}
}

func (p *Processor) HandleMessage(ctx context.Context, senderID string, text string) {
	candidates := p.extractor.Extract(ctx, text)
	name := p.names.UserName(ctx, senderID)
	reply := p.dispatcher.Dispatch(ctx, name, candidates)

	p.publishReply(ctx, senderID, reply)
}

func (p *Processor) publishReply(ctx context.Context, recipientID string, text string) {
	reply := domain.ReplyMessage{
		RecipientID: recipientID,
		Text:        text,
	}

	body, err := json.Marshal(reply)
	if err != nil {
		slog.Error("回复消息序列化失败", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := p.replyChannel.PublishWithContext(
		ctx,
		"",
		domain.ReplyQueue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		slog.Error("回复消息入队失败", "recipientID", recipientID, "error", err)
	}
}
