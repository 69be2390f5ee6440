package entity

import "strings"

// Content collections scanned for media references.
const (
	CollectionProjects   = "projects"
	CollectionCategories = "categories"
	CollectionServices   = "services"
)

// UsageCollections lists the scanned collections in report order.
var UsageCollections = []string{CollectionProjects, CollectionCategories, CollectionServices}

// UsageFields names, per collection, the fields that may embed a media
// reference. Nested values use dot notation.
var UsageFields = map[string][]string{
	CollectionProjects:   {"thumbnail", "hero_image", "gallery", "testimonial.avatar", "seo.og_image"},
	CollectionCategories: {"image"},
	CollectionServices:   {"image", "instructors.image"},
}

// UsageItem is the minimal description of a content record that references
// a media file.
type UsageItem struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
	Name  string `json:"name,omitempty"`
	Slug  string `json:"slug"`
}

// UsageRecord is implemented by content records that can embed media.
type UsageRecord interface {
	UsageValues(field string) []string
	UsageItem() UsageItem
}

// UsageQuery asks a collection for records whose usage fields contain any
// candidate string, ignoring case.
type UsageQuery struct {
	Collection string
	Fields     []string
	Candidates []string
}

// NewUsageQuery builds a query over every usage field of collection.
func NewUsageQuery(collection string, candidates ...string) UsageQuery {
	return UsageQuery{
		Collection: collection,
		Fields:     UsageFields[collection],
		Candidates: candidates,
	}
}

// Matches is the reference predicate every backend must agree with.
func (q UsageQuery) Matches(rec UsageRecord) bool {
	if rec == nil {
		return false
	}
	needles := make([]string, 0, len(q.Candidates))
	for _, candidate := range q.Candidates {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			needles = append(needles, strings.ToLower(candidate))
		}
	}
	if len(needles) == 0 {
		return false
	}
	for _, field := range q.Fields {
		for _, value := range rec.UsageValues(field) {
			lowered := strings.ToLower(value)
			for _, needle := range needles {
				if strings.Contains(lowered, needle) {
					return true
				}
			}
		}
	}
	return false
}

// UsageValues implements UsageRecord.
func (p *DbProject) UsageValues(field string) []string {
	switch field {
	case "thumbnail":
		return []string{p.Thumbnail}
	case "hero_image":
		return []string{p.HeroImage}
	case "gallery":
		return p.Gallery.ToSlice()
	case "testimonial.avatar":
		return []string{p.Testimonial.Avatar}
	case "seo.og_image":
		return []string{p.SEO.OgImage}
	}
	return nil
}

// UsageItem implements UsageRecord.
func (p *DbProject) UsageItem() UsageItem {
	return UsageItem{ID: p.ID, Title: p.Title, Slug: p.Slug}
}

// UsageValues implements UsageRecord.
func (c *DbCategory) UsageValues(field string) []string {
	if field == "image" {
		return []string{c.Image}
	}
	return nil
}

// UsageItem implements UsageRecord.
func (c *DbCategory) UsageItem() UsageItem {
	return UsageItem{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// UsageValues implements UsageRecord.
func (s *DbService) UsageValues(field string) []string {
	switch field {
	case "image":
		return []string{s.Image}
	case "instructors.image":
		values := make([]string, 0, len(s.Instructors))
		for _, instructor := range s.Instructors {
			values = append(values, instructor.Image)
		}
		return values
	}
	return nil
}

// UsageItem implements UsageRecord.
func (s *DbService) UsageItem() UsageItem {
	return UsageItem{ID: s.ID, Title: s.Title, Slug: s.Slug}
}

// UsageCollection is the per-collection part of a usage report.
// Count and Items are de-duplicated by record id; RawCount sums the hits of
// every candidate URL.
type UsageCollection struct {
	Found    bool        `json:"found"`
	Count    int         `json:"count"`
	RawCount int         `json:"raw_count"`
	Items    []UsageItem `json:"items"`
}

// UsageEnvironment reports how one URL variant matched across collections.
type UsageEnvironment struct {
	URL        string `json:"url"`
	Found      bool   `json:"found"`
	Projects   int    `json:"projects"`
	Categories int    `json:"categories"`
	Services   int    `json:"services"`
}

// UsageEnvironments groups the local and production URL variants.
type UsageEnvironments struct {
	Local      UsageEnvironment `json:"local"`
	Production UsageEnvironment `json:"production"`
}

// UsageDetails is the per-collection breakdown of a usage report.
type UsageDetails struct {
	Projects     UsageCollection   `json:"projects"`
	Categories   UsageCollection   `json:"categories"`
	Services     UsageCollection   `json:"services"`
	Environments UsageEnvironments `json:"environments"`
}

// UsageReport answers whether a media file is referenced by content.
type UsageReport struct {
	Filename     string       `json:"filename"`
	IsUsed       bool         `json:"isUsed"`
	UsageDetails UsageDetails `json:"usageDetails"`
}
