package models

// User 密码按签发时的原文保存，见 service.UserService。
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Password string `gorm:"not null" json:"-"`
	APIKey   string `gorm:"column:api_key;size:40;not null" json:"api_key"`
}

type Room struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

type Message struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	RoomID uint   `gorm:"index:idx_msg_room_id;not null" json:"room_id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Body   string `gorm:"type:text;not null" json:"body"`
}

// MessageView 读取房间消息时返回的结构，不含作者。
type MessageView struct {
	ID   uint   `json:"id"`
	Body string `json:"body"`
}
