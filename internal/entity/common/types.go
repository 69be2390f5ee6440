package common

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray 以 JSON 格式存储字符串切片。
type StringArray []string

// Value 实现 driver.Valuer 接口。
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return MarshalJSONText([]string(a))
}

// Scan 实现 sql.Scanner 接口。
func (a *StringArray) Scan(value interface{}) error {
	return scanJSON(value, a, func() { *a = StringArray{} })
}

// ToSlice 返回底层切片的副本。
func (a StringArray) ToSlice() []string {
	if len(a) == 0 {
		return []string{}
	}
	out := make([]string, len(a))
	copy(out, a)
	return out
}

// Contains 检查数组是否包含给定的字符串。
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// StringMap 以 JSON 文本格式存储字符串 map。
type StringMap map[string]string

// Value 实现 driver.Valuer 接口。
func (m StringMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (m *StringMap) Scan(value interface{}) error {
	return scanJSON(value, m, func() { *m = StringMap{} })
}

// MarshalJSONText encodes v as JSON text without HTML escaping, so stored
// URLs stay searchable with LIKE.
func MarshalJSONText(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ScanJSON decodes a JSON text column into target. Empty values call reset.
func ScanJSON(value interface{}, target interface{}, reset func()) error {
	return scanJSON(value, target, reset)
}

func scanJSON(value interface{}, target interface{}, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			reset()
			return nil
		}
		return json.Unmarshal(v, target)
	case string:
		if v == "" {
			reset()
			return nil
		}
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported type for JSON column: %T", value)
	}
}

// Meta 包含分页元数据。
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 包含通用的分页和排序参数。
type BaseParams struct {
	PageSize int64 `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64 `json:"page" form:"page" query:"page"`
}

// Normalize 填充默认分页参数并限制单页上限。
func (p *BaseParams) Normalize(defaultSize, maxSize int64) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
}

// Offset 返回当前页的偏移量。
func (p BaseParams) Offset() int64 {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
