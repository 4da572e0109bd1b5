package id

import (
	"crypto/rand"
	"encoding/base64"
)

// GetSecureToken 生成 URL 安全的随机令牌
// byteLen 为随机字节数，32 字节即 256 位熵
func GetSecureToken(byteLen int) (string, error) {
	if byteLen <= 0 {
		byteLen = 32
	}
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
