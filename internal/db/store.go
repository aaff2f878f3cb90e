package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrStorage 标记所有来自底层数据库的失败。
var ErrStorage = errors.New("storage error")

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// Store 执行单条参数化语句，每次调用各自提交，不存在跨调用的事务。
// ctx 里带有 Session 时，语句在该 Session 的连接上执行。
type Store struct {
	gdb *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{gdb: gdb}
}

func (s *Store) handle(ctx context.Context) (*gorm.DB, error) {
	if sess := SessionFrom(ctx); sess != nil && sess.store == s {
		return sess.handle(ctx)
	}
	return s.gdb.WithContext(ctx), nil
}

// Query 把所有结果行扫描进 dest，dest 必须指向切片。
func (s *Store) Query(ctx context.Context, dest any, query string, args ...any) error {
	h, err := s.handle(ctx)
	if err != nil {
		return err
	}
	return storageErr(h.Raw(query, args...).Scan(dest).Error)
}

// QueryOne 把第一行扫描进 dest，并返回是否存在该行。
func (s *Store) QueryOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	h, err := s.handle(ctx)
	if err != nil {
		return false, err
	}
	res := h.Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	h, err := s.handle(ctx)
	if err != nil {
		return 0, err
	}
	res := h.Exec(query, args...)
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}
	return res.RowsAffected, nil
}

// Insert 写入一行模型数据并回填自增主键。
func (s *Store) Insert(ctx context.Context, value any) error {
	h, err := s.handle(ctx)
	if err != nil {
		return err
	}
	return storageErr(h.Create(value).Error)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return storageErr(err)
	}
	return storageErr(sqlDB.PingContext(ctx))
}
