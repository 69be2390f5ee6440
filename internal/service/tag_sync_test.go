package service

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
)

const mediaURL = "/uploads/media/2025/stage.png"

func seedTags(store *fakeStore) {
	store.addTag(&entity.DbMediaTag{ID: "t1", Name: "Stage", MediaFiles: entity.StringArray{mediaURL, "other.png"}, MediaCount: 7})
	store.addTag(&entity.DbMediaTag{ID: "t2", Name: "Lights", MediaFiles: entity.StringArray{mediaURL}, MediaCount: 3})
	store.addTag(&entity.DbMediaTag{ID: "t3", Name: "Crowd"})
}

func tagIDs(tags []entity.DbMediaTag) []string {
	ids := make([]string, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestSetTagsForMediaMakesSetsEqual(t *testing.T) {
	tests := []struct {
		name     string
		desired  []string
		expected []string
	}{
		{name: "替换部分标签", desired: []string{"t2", "t3"}, expected: []string{"t2", "t3"}},
		{name: "保持不变", desired: []string{"t1", "t2"}, expected: []string{"t1", "t2"}},
		{name: "空集合移除全部", desired: []string{}, expected: []string{}},
		{name: "重复与空白 id", desired: []string{" t3 ", "t3", ""}, expected: []string{"t3"}},
		{name: "忽略不存在的标签", desired: []string{"t1", "missing"}, expected: []string{"t1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedTags(store)
			sync := NewTagSynchronizer(store, entity.MediaCountStored)

			if _, err := sync.SetTagsForMedia(context.Background(), admin, mediaURL, tt.desired); err != nil {
				t.Fatalf("SetTagsForMedia: %v", err)
			}
			if got := store.tagsHolding(mediaURL); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if !store.tags["t1"].MediaFiles.Contains("other.png") {
				t.Error("unrelated media was removed from t1")
			}
		})
	}
}

func TestSetTagsForMediaIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedTags(store)
	sync := NewTagSynchronizer(store, entity.MediaCountStored)
	ctx := context.Background()

	first, err := sync.SetTagsForMedia(ctx, admin, mediaURL, []string{"t2", "t3"})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := sync.SetTagsForMedia(ctx, admin, mediaURL, []string{"t2", "t3"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(tagIDs(first), tagIDs(second)) {
		t.Errorf("expected same tags, got %v and %v", tagIDs(first), tagIDs(second))
	}
	for _, id := range []string{"t2", "t3"} {
		count := 0
		for _, file := range store.tags[id].MediaFiles {
			if file == mediaURL {
				count++
			}
		}
		if count != 1 {
			t.Errorf("tag %s holds the media %d times", id, count)
		}
	}
}

func TestSetTagsForMediaReturnsRefreshedTags(t *testing.T) {
	store := newFakeStore()
	seedTags(store)

	tags, err := NewTagSynchronizer(store, entity.MediaCountStored).SetTagsForMedia(context.Background(), admin, mediaURL, []string{"t3"})
	if err != nil {
		t.Fatalf("SetTagsForMedia: %v", err)
	}
	if got := tagIDs(tags); !reflect.DeepEqual(got, []string{"t3"}) {
		t.Fatalf("expected [t3], got %v", got)
	}
	if !tags[0].MediaFiles.Contains(mediaURL) {
		t.Errorf("returned tag is stale: %+v", tags[0])
	}
}

func TestSetTagsForMediaCountModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		expected map[string]int64
	}{
		{name: "stored 模式不改计数", mode: entity.MediaCountStored, expected: map[string]int64{"t1": 7, "t2": 3, "t3": 0}},
		{name: "derived 模式重算计数", mode: entity.MediaCountDerived, expected: map[string]int64{"t1": 1, "t2": 0, "t3": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedTags(store)
			if _, err := NewTagSynchronizer(store, tt.mode).SetTagsForMedia(context.Background(), admin, mediaURL, []string{"t3"}); err != nil {
				t.Fatalf("SetTagsForMedia: %v", err)
			}
			for id, want := range tt.expected {
				if got := store.tags[id].MediaCount; got != want {
					t.Errorf("tag %s: expected media_count %d, got %d", id, want, got)
				}
			}
		})
	}
}

func TestSetTagsForMediaValidation(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		url    string
		ids    []string
		kind   apperr.Kind
	}{
		{name: "缺少 URL", caller: admin, url: " ", ids: []string{}, kind: apperr.KindValidation},
		{name: "tagIds 不是数组", caller: admin, url: mediaURL, ids: nil, kind: apperr.KindValidation},
		{name: "非管理员", caller: Caller{ID: "u1", Role: entity.UserRoleUser}, url: mediaURL, ids: []string{}, kind: apperr.KindForbidden},
		{name: "未登录", caller: Caller{}, url: mediaURL, ids: []string{}, kind: apperr.KindUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedTags(store)
			_, err := NewTagSynchronizer(store, entity.MediaCountStored).SetTagsForMedia(context.Background(), tt.caller, tt.url, tt.ids)
			if !apperr.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
			if got := store.tagsHolding(mediaURL); !reflect.DeepEqual(got, []string{"t1", "t2"}) {
				t.Errorf("associations changed on rejected call: %v", got)
			}
		})
	}
}

func TestSetTagsForMediaPartialFailure(t *testing.T) {
	store := newFakeStore()
	seedTags(store)
	store.attachErr = errBackend
	sync := NewTagSynchronizer(store, entity.MediaCountStored)

	_, err := sync.SetTagsForMedia(context.Background(), admin, mediaURL, []string{"t2", "t3"})
	if !apperr.IsKind(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	// 移除阶段已生效，添加阶段未执行
	if got := store.tagsHolding(mediaURL); !reflect.DeepEqual(got, []string{"t2"}) {
		t.Fatalf("expected intermediate state [t2], got %v", got)
	}

	store.attachErr = nil
	if _, err := sync.SetTagsForMedia(context.Background(), admin, mediaURL, []string{"t2", "t3"}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := store.tagsHolding(mediaURL); !reflect.DeepEqual(got, []string{"t2", "t3"}) {
		t.Errorf("retry did not converge: %v", got)
	}
}
