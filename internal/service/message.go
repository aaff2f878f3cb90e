package service

import (
	"context"
	"fmt"

	"watchparty/internal/db"
	"watchparty/internal/models"
)

// MessageService 封装消息相关的业务逻辑。
type MessageService struct {
	store *db.Store
}

func NewMessageService(store *db.Store) *MessageService {
	return &MessageService{store: store}
}

// ListByRoom 按 id 顺序返回房间内全部消息，不含作者。
func (s *MessageService) ListByRoom(ctx context.Context, roomID uint) ([]models.MessageView, error) {
	var msgs []models.MessageView
	if err := s.store.Query(ctx, &msgs, "SELECT id, body FROM messages WHERE room_id = ? ORDER BY id", roomID); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.MessageView{}
	}
	return msgs, nil
}

// Post 保存一条消息，不校验房间是否存在。
func (s *MessageService) Post(ctx context.Context, roomID, userID uint, body string) error {
	if userID == 0 {
		return ErrAuthRequired
	}
	if body == "" {
		return fmt.Errorf("%w: message body is empty", ErrValidation)
	}
	msg := models.Message{RoomID: roomID, UserID: userID, Body: body}
	return s.store.Insert(ctx, &msg)
}
