package service

import (
	"context"
	"fmt"

	"watchparty/internal/auth"
	"watchparty/internal/db"
	"watchparty/internal/models"
)

// RoomService 封装房间相关的业务逻辑。
type RoomService struct {
	store *db.Store
}

func NewRoomService(store *db.Store) *RoomService {
	return &RoomService{store: store}
}

// List 返回全部房间，按创建先后排序。
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.store.Query(ctx, &rooms, "SELECT id, name FROM rooms ORDER BY id"); err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

// Create 以占位名称新建房间。
func (s *RoomService) Create(ctx context.Context) (*models.Room, error) {
	name, err := auth.RoomName()
	if err != nil {
		return nil, fmt.Errorf("generate room name: %w", err)
	}
	room := models.Room{Name: name}
	if err := s.store.Insert(ctx, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Get 房间不存在时返回 nil, nil。
func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	found, err := s.store.QueryOne(ctx, &room, "SELECT id, name FROM rooms WHERE id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

// Rename 修改房间名；id 不存在时静默忽略。
func (s *RoomService) Rename(ctx context.Context, id uint, name string) error {
	if id == 0 || name == "" {
		return fmt.Errorf("%w: room id and name are required", ErrValidation)
	}
	_, err := s.store.Exec(ctx, "UPDATE rooms SET name = ? WHERE id = ?", name, id)
	return err
}
