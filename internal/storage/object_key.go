package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

const (
	defaultCategory    = "misc"
	defaultExtension   = "bin"
	defaultContentType = "application/octet-stream"
)

// ObjectKey 生成 category/YYYY/MM/DD/base.ext 形式的对象键
func ObjectKey(category, baseName, ext string, at time.Time) string {
	at = at.UTC()
	category = keySegment(category)
	if category == "" {
		category = defaultCategory
	}
	base := strings.Trim(keySegment(strings.ReplaceAll(strings.TrimSpace(baseName), " ", "-")), "-_")
	if base == "" {
		base = fmt.Sprintf("%d", at.UnixNano())
	}
	return path.Join(
		category,
		fmt.Sprintf("%04d/%02d/%02d", at.Year(), at.Month(), at.Day()),
		base+"."+keyExtension(ext),
	)
}

// keySegment 只保留小写字母、数字、- 和 _
func keySegment(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, strings.TrimSpace(value))
}

func keyExtension(ext string) string {
	ext = keySegment(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return defaultExtension
	}
	return ext
}

// contentTypeOf 优先使用调用方给出的类型，否则按扩展名推断
func contentTypeOf(opts SaveOptions) string {
	if ct := strings.TrimSpace(opts.ContentType); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension("." + keyExtension(opts.Extension)); ct != "" {
		return ct
	}
	return defaultContentType
}

// withPrefix 在对象键前加上存储桶前缀
func withPrefix(prefix, key string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	key = strings.TrimLeft(key, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
