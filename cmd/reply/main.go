package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/messenger"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端（用于发送失败时通知管理员）
	 **********************************************/
	mailClient, err := mail.NewClient(cfg.Alert.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Alert.SMTP.Port),
		mail.WithUsername(cfg.Alert.SMTP.Username),
		mail.WithPassword(cfg.Alert.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer mailClient.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Alert.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := mailClient.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建 Messenger 客户端
	 **********************************************/
	messengerClient := messenger.NewClient(cfg)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		domain.ReplyQueue, // 队列名称
		true,              // 是否持久化
		false,             // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,             // 是否独占，即是否允许多个消费者访问这个队列
		false,             // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,               // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,  // 是否自动确认消息
		false,  // 是否独占队列
		false,  // 是否禁止消费者接受自己发送的消息，必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,  // 是否不等待，等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到回复消息", slog.String("message", string(msg.Body)))

				// 对回复消息反序列化
				reply := domain.ReplyMessage{}
				if err := json.Unmarshal(msg.Body, &reply); err != nil {
					logger.Error("回复消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// 发送回复。发送失败不重试：回复本身就是错误上报的渠道，
				// 只记录日志并通知管理员
				if err := messengerClient.Send(ctx, reply.RecipientID, reply.Text); err != nil {
					logger.Error("回复发送失败", slog.String("recipientID", reply.RecipientID), slog.String("error", err.Error()))
					notifyAdmin(cfg, mailClient, reply, err)
					_ = msg.Nack(false, false)
					continue
				}

				// 确认消息
				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 reply worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("reply worker 已成功关闭")
}

// notifyAdmin 给管理员发一封告警邮件，发不出去也只记录日志
func notifyAdmin(cfg *config.Config, client *mail.Client, reply domain.ReplyMessage, sendErr error) {
	m := mail.NewMsg()
	if err := m.From(cfg.Alert.SMTP.Username); err != nil {
		slog.Error("无法设置告警邮件发件人", slog.String("error", err.Error()))
		return
	}
	if err := m.To(cfg.Alert.AdminEmail); err != nil {
		slog.Error("无法设置告警邮件收件人", slog.String("error", err.Error()))
		return
	}

	m.Subject("ECNC 排班机器人 - 回复发送失败")
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"回复发送失败。\n\nrecipientID: %s\nerror: %v\n\n原始回复内容:\n%s\n",
		reply.RecipientID, sendErr, reply.Text,
	))

	if err := client.DialAndSend(m); err != nil {
		slog.Error("告警邮件发送失败", slog.String("error", err.Error()))
	}
}
