package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	DisplayName  *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap 转换为更新 map（键与列名、bson 字段名一致）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// TagUpdates 标签更新字段
type TagUpdates struct {
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
	UpdatedBy   *string
}

// ToMap 转换为更新 map（键与列名、bson 字段名一致）
func (u TagUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Slug != nil {
		updates["slug"] = *u.Slug
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.UpdatedBy != nil {
		updates["updated_by"] = *u.UpdatedBy
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u TagUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
