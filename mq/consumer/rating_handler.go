package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/models/events"
	"github.com/Xushengqwer/content_service/myErrors"
	"github.com/Xushengqwer/content_service/service"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// RatingUpdateHandler 消费外部评估服务发布的用户评分更新事件，
// 把最新评分落到本服务的用户记录上。
type RatingUpdateHandler struct {
	logger      *core.ZapLogger
	userService service.UserService
}

func NewRatingUpdateHandler(logger *core.ZapLogger, userService service.UserService) *RatingUpdateHandler {
	return &RatingUpdateHandler{
		logger:      logger,
		userService: userService,
	}
}

func (h *RatingUpdateHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("RatingUpdateHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.UserRatingUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("RatingUpdateHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	h.logger.Info("RatingUpdateHandler: 成功解析评分更新消息",
		zap.String("event_id", event.EventID),
		zap.Uint64("user_id", event.UserID),
		zap.Float64("rating", event.Rating))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.userService.ApplyRatingUpdate(updateCtx, event.UserID, event.Rating)
	if err != nil {
		if errors.Is(err, myErrors.ErrUserNotFound) {
			// 评估服务可能先于用户同步发出消息，不存在的用户不重试
			h.logger.Warn("RatingUpdateHandler: 尝试更新不存在的用户评分", zap.Uint64("user_id", event.UserID))
			return nil
		}
		h.logger.Error("RatingUpdateHandler: 更新用户评分失败", zap.Error(err), zap.Uint64("user_id", event.UserID))
		return fmt.Errorf("RatingUpdateHandler: 调用 ApplyRatingUpdate 失败: %w", err)
	}

	h.logger.Info("RatingUpdateHandler: 成功更新用户评分", zap.Uint64("user_id", event.UserID))
	return nil
}
