package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	Digits       = "0123456789"
	LowerAlnum   = "abcdefghijklmnopqrstuvwxyz0123456789"
	PasswordLen  = 10
	APIKeyLen    = 40
	nameSuffixLn = 6
)

// RandomString 从 alphabet 中均匀抽取 n 个字符。
func RandomString(alphabet string, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// Credentials 新生成、尚未入库的身份信息。
type Credentials struct {
	Name     string
	Password string
	APIKey   string
}

// NewCredentials 为新账号生成占位昵称、密码和 API key。
func NewCredentials() (Credentials, error) {
	suffix, err := RandomString(Digits, nameSuffixLn)
	if err != nil {
		return Credentials{}, err
	}
	password, err := RandomString(LowerAlnum, PasswordLen)
	if err != nil {
		return Credentials{}, err
	}
	apiKey, err := RandomString(LowerAlnum, APIKeyLen)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		Name:     "Unnamed User #" + suffix,
		Password: password,
		APIKey:   apiKey,
	}, nil
}

// RoomName 生成新房间的占位名称。
func RoomName() (string, error) {
	suffix, err := RandomString(Digits, nameSuffixLn)
	if err != nil {
		return "", err
	}
	return "Unnamed Room " + suffix, nil
}
