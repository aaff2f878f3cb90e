package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

var errSessionClosed = fmt.Errorf("%w: session closed", ErrStorage)

type sessionKey struct{}

// Session 让同一个请求的所有语句跑在同一条连接上。
// 连接在第一次使用时才从连接池取出，Close 时归还。
type Session struct {
	store *Store

	mu     sync.Mutex
	conn   *sql.Conn
	tx     *gorm.DB
	closed bool
}

func (s *Store) NewSession() *Session {
	return &Session{store: s}
}

// WithSession 返回携带 sess 的 ctx，Store 的调用会经由它执行。
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

func SessionFrom(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}

// Acquired 是否已经取到连接。
func (s *Session) Acquired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *Session) handle(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionClosed
	}
	if s.tx != nil {
		return s.tx.WithContext(ctx), nil
	}

	sqlDB, err := s.store.gdb.DB()
	if err != nil {
		return nil, storageErr(err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	tx := s.store.gdb.WithContext(ctx)
	tx.Statement.ConnPool = conn
	s.conn, s.tx = conn, tx
	return tx, nil
}

// Close 归还已取出的连接，可重复调用。
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.tx = nil
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return storageErr(err)
	}
	return nil
}
