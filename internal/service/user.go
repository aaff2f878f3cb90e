package service

import (
	"context"
	"fmt"
	"strconv"

	"watchparty/internal/auth"
	"watchparty/internal/db"
	"watchparty/internal/models"
)

// UserService 负责创建账号和识别身份。
//
// 密码以明文保存和比对，cookie 里携带的也是同一份明文，
// 因此修改密码是让旧会话失效的唯一方式。
// 所有凭据比对都收在这个类型里，日后换成哈希方案时调用方无需改动。
type UserService struct {
	store *db.Store
}

func NewUserService(store *db.Store) *UserService {
	return &UserService{store: store}
}

const userColumns = "SELECT id, name, password, api_key FROM users"

// CreateUser 用生成的昵称、密码和 API key 创建用户。
func (s *UserService) CreateUser(ctx context.Context) (*models.User, error) {
	creds, err := auth.NewCredentials()
	if err != nil {
		return nil, fmt.Errorf("generate credentials: %w", err)
	}
	user := models.User{Name: creds.Name, Password: creds.Password, APIKey: creds.APIKey}
	if err := s.store.Insert(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateFromCookies 返回 id 和密码都与 cookie 完全一致的用户；
// 任一缺失或没有匹配时返回 nil。
func (s *UserService) AuthenticateFromCookies(ctx context.Context, userID, password string) (*models.User, error) {
	if userID == "" || password == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, userColumns+" WHERE id = ? AND password = ?", id, password)
}

// AuthenticateByCredentials 供登录表单使用。昵称不唯一，取 id 最小的匹配行。
func (s *UserService) AuthenticateByCredentials(ctx context.Context, name, password string) (*models.User, error) {
	return s.findOne(ctx, userColumns+" WHERE name = ? AND password = ? ORDER BY id", name, password)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.findOne(ctx, userColumns+" WHERE id = ?", id)
}

func (s *UserService) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	found, err := s.store.QueryOne(ctx, &user, query, args...)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateName(ctx context.Context, userID uint, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrValidation)
	}
	_, err := s.store.Exec(ctx, "UPDATE users SET name = ? WHERE id = ?", name, userID)
	return err
}

// UpdatePassword 替换密码，旧密码签发的 cookie 随即全部失效。
func (s *UserService) UpdatePassword(ctx context.Context, userID uint, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is empty", ErrValidation)
	}
	_, err := s.store.Exec(ctx, "UPDATE users SET password = ? WHERE id = ?", password, userID)
	return err
}
