package mongodb

import (
	"reflect"
	"testing"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUsageFilter(t *testing.T) {
	query := entity.NewUsageQuery(entity.CollectionCategories, "logo.png", "  ", "https://trivixa.in/logo.png")
	filter, ok := usageFilter(query)
	if !ok {
		t.Fatal("expected a filter")
	}

	want := bson.M{"$or": bson.A{
		bson.M{"image": bson.M{"$regex": `logo\.png`, "$options": "i"}},
		bson.M{"image": bson.M{"$regex": `https://trivixa\.in/logo\.png`, "$options": "i"}},
	}}
	if !reflect.DeepEqual(filter, want) {
		t.Fatalf("usageFilter() = %#v, want %#v", filter, want)
	}
}

func TestUsageFilterUsesNestedPaths(t *testing.T) {
	query := entity.NewUsageQuery(entity.CollectionServices, "coach.jpg")
	filter, ok := usageFilter(query)
	if !ok {
		t.Fatal("expected a filter")
	}
	clauses := filter["$or"].(bson.A)
	if len(clauses) != 2 {
		t.Fatalf("expected one clause per field, got %d", len(clauses))
	}
	if _, ok := clauses[1].(bson.M)["instructors.image"]; !ok {
		t.Fatalf("expected instructors.image clause, got %#v", clauses[1])
	}
}

func TestUsageFilterWithoutCandidates(t *testing.T) {
	if _, ok := usageFilter(entity.NewUsageQuery(entity.CollectionProjects, "", " ")); ok {
		t.Fatal("expected no filter for blank candidates")
	}
}

func TestDetachFilter(t *testing.T) {
	tests := []struct {
		name string
		keep []string
		want bson.M
	}{
		{
			name: "remove from all",
			keep: []string{},
			want: bson.M{"media_files": "a.png"},
		},
		{
			name: "keep listed",
			keep: []string{"t1", " t2 ", "t1", ""},
			want: bson.M{"media_files": "a.png", "_id": bson.M{"$nin": []string{"t1", "t2"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detachFilter("a.png", tt.keep); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("detachFilter() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTagsForMediaFilter(t *testing.T) {
	got := tagsForMediaFilter("a.png", nil)
	if !reflect.DeepEqual(got, bson.M{"media_files": "a.png"}) {
		t.Fatalf("unexpected filter without ids: %#v", got)
	}

	got = tagsForMediaFilter("a.png", []string{"t1"})
	want := bson.M{"$or": bson.A{
		bson.M{"_id": bson.M{"$in": []string{"t1"}}},
		bson.M{"media_files": "a.png"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tagsForMediaFilter() = %#v, want %#v", got, want)
	}
}

func TestContentFilter(t *testing.T) {
	params := &entity.ContentQuery{Search: "gala", CategoryID: "c1", PublishedOnly: true}
	got := contentFilter(params, projectSearchFields, true)
	if got["category_id"] != "c1" || got["is_published"] != true {
		t.Fatalf("unexpected filter: %#v", got)
	}
	if clauses := got["$or"].(bson.A); len(clauses) != len(projectSearchFields) {
		t.Fatalf("expected %d search clauses, got %d", len(projectSearchFields), len(clauses))
	}

	got = contentFilter(&entity.ContentQuery{CategoryID: "c1"}, categorySearchFields, false)
	if len(got) != 0 {
		t.Fatalf("expected empty filter, got %#v", got)
	}
}

func TestRecountPipeline(t *testing.T) {
	pipeline := recountPipeline()
	if len(pipeline) != 1 || pipeline[0][0].Key != "$set" {
		t.Fatalf("unexpected pipeline: %#v", pipeline)
	}
}
