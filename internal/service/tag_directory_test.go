package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "普通名称", input: "Stage Lights", expected: "stage-lights"},
		{name: "连续符号合并", input: "  Wedding -- & Gala!! ", expected: "wedding-gala"},
		{name: "数字保留", input: "Expo 2025", expected: "expo-2025"},
		{name: "首尾符号去除", input: "--hello--", expected: "hello"},
		{name: "非 ASCII 字母", input: "Café Night", expected: "café-night"},
		{name: "只有符号", input: "!!!", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTagDirectoryCreate(t *testing.T) {
	store := newFakeStore()
	dir := NewTagDirectory(store, entity.MediaCountStored)
	ctx := context.Background()

	tag, err := dir.Create(ctx, admin, entity.TagCreateRequest{Name: "  Stage Lights ", Description: "rigging"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tag.Name != "Stage Lights" || tag.Slug != "stage-lights" || !tag.IsActive || tag.CreatedBy != admin.ID {
		t.Fatalf("unexpected tag %+v", tag)
	}
	if tag.MediaCount != 0 || len(tag.MediaFiles) != 0 {
		t.Errorf("new tag should be empty, got %+v", tag)
	}

	_, err = dir.Create(ctx, admin, entity.TagCreateRequest{Name: "Stage Lights"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("expected conflict for duplicate name, got %v", err)
	}
}

func TestTagDirectoryValidation(t *testing.T) {
	tests := []struct {
		name string
		req  entity.TagCreateRequest
	}{
		{name: "名称为空", req: entity.TagCreateRequest{Name: "  "}},
		{name: "名称超长", req: entity.TagCreateRequest{Name: strings.Repeat("a", 51)}},
		{name: "描述超长", req: entity.TagCreateRequest{Name: "ok", Description: strings.Repeat("d", 201)}},
		{name: "名称无字母数字", req: entity.TagCreateRequest{Name: "***"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTagDirectory(newFakeStore(), entity.MediaCountStored).Create(context.Background(), admin, tt.req)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTagDirectoryBoundaryLengths(t *testing.T) {
	_, err := NewTagDirectory(newFakeStore(), entity.MediaCountStored).Create(context.Background(), admin, entity.TagCreateRequest{
		Name:        strings.Repeat("a", 50),
		Description: strings.Repeat("d", 200),
	})
	if err != nil {
		t.Fatalf("expected limits to be inclusive, got %v", err)
	}
}

func TestTagDirectoryUpdateRederivesSlug(t *testing.T) {
	store := newFakeStore()
	dir := NewTagDirectory(store, entity.MediaCountStored)
	ctx := context.Background()

	tag, err := dir.Create(ctx, admin, entity.TagCreateRequest{Name: "Old Name"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "New Name"
	inactive := false
	updated, err := dir.Update(ctx, admin, tag.ID, entity.TagUpdateRequest{Name: &name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "new-name" || updated.IsActive {
		t.Errorf("unexpected tag after update %+v", updated)
	}

	description := "only description"
	updated, err = dir.Update(ctx, admin, tag.ID, entity.TagUpdateRequest{Description: &description})
	if err != nil {
		t.Fatalf("Update description: %v", err)
	}
	if updated.Slug != "new-name" || updated.Description != description {
		t.Errorf("slug should not change without a new name, got %+v", updated)
	}

	if _, err := dir.Update(ctx, admin, "missing", entity.TagUpdateRequest{Name: &name}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTagDirectoryDeleteGuard(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		tag     *entity.DbMediaTag
		blocked bool
	}{
		{name: "stored 计数为正", mode: entity.MediaCountStored, tag: &entity.DbMediaTag{ID: "t1", MediaCount: 2}, blocked: true},
		{name: "stored 计数为零但有文件", mode: entity.MediaCountStored, tag: &entity.DbMediaTag{ID: "t1", MediaFiles: entity.StringArray{"a.png"}}, blocked: false},
		{name: "derived 有文件", mode: entity.MediaCountDerived, tag: &entity.DbMediaTag{ID: "t1", MediaFiles: entity.StringArray{"a.png"}}, blocked: true},
		{name: "derived 计数过期但无文件", mode: entity.MediaCountDerived, tag: &entity.DbMediaTag{ID: "t1", MediaCount: 4}, blocked: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.addTag(tt.tag)
			err := NewTagDirectory(store, tt.mode).Delete(context.Background(), admin, "t1")
			if !tt.blocked {
				if err != nil {
					t.Fatalf("Delete: %v", err)
				}
				if _, ok := store.tags["t1"]; ok {
					t.Error("tag still present")
				}
				return
			}
			appErr := apperr.From(err)
			if appErr == nil || appErr.Code != apperr.CodeTagInUse || appErr.HTTPStatus() != http.StatusBadRequest {
				t.Fatalf("expected tag-in-use error with status 400, got %v", err)
			}
			if _, ok := store.tags["t1"]; !ok {
				t.Error("in-use tag was deleted")
			}
		})
	}
}

func TestTagDirectoryDeleteMissing(t *testing.T) {
	err := NewTagDirectory(newFakeStore(), entity.MediaCountStored).Delete(context.Background(), admin, "missing")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTagDirectoryRequiresAdmin(t *testing.T) {
	store := newFakeStore()
	store.addTag(&entity.DbMediaTag{ID: "t1", Name: "Stage", Slug: "stage"})
	dir := NewTagDirectory(store, entity.MediaCountStored)
	visitor := Caller{ID: "u1", Role: entity.UserRoleUser}

	if _, err := dir.Create(context.Background(), visitor, entity.TagCreateRequest{Name: "x"}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("create: expected forbidden, got %v", err)
	}
	if err := dir.Delete(context.Background(), visitor, "t1"); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("delete: expected forbidden, got %v", err)
	}
	if _, err := dir.Get(context.Background(), "t1"); err != nil {
		t.Errorf("get should be public, got %v", err)
	}
}
