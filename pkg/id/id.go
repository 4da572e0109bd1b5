package id

import (
	"strings"

	"github.com/google/uuid"
	"github.com/teris-io/shortid"
)

// GetUUID 生成标准 UUID
func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes 生成去掉横线的 UUID, 用作各实体的业务主键
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ShortId 生成短 id, 用于 slug 冲突后缀
func ShortId() string {
	s, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return s
}
