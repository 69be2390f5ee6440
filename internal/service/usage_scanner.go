package service

import (
	"context"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// UsageFinder searches one content collection for media references.
type UsageFinder interface {
	FindUsage(ctx context.Context, query entity.UsageQuery) ([]entity.UsageItem, error)
}

// candidate 索引
const (
	candidateBare = iota
	candidateLocal
	candidateProduction
	candidateCount
)

// candidateResults 一个集合在每个候选串下的命中
type candidateResults [candidateCount][]entity.UsageItem

// UsageScanner 检查媒体文件是否被内容引用
type UsageScanner struct {
	finder         UsageFinder
	localBase      string
	productionBase string
}

// NewUsageScanner 创建扫描器，localBase/productionBase 为两个环境的媒体 URL 前缀
func NewUsageScanner(finder UsageFinder, localBase, productionBase string) *UsageScanner {
	return &UsageScanner{
		finder:         finder,
		localBase:      strings.TrimRight(strings.TrimSpace(localBase), "/"),
		productionBase: strings.TrimRight(strings.TrimSpace(productionBase), "/"),
	}
}

// FilenameOf returns the last path segment of a media URL.
func FilenameOf(mediaURL string) string {
	mediaURL = strings.TrimSpace(mediaURL)
	if idx := strings.LastIndex(mediaURL, "/"); idx >= 0 {
		return mediaURL[idx+1:]
	}
	return mediaURL
}

// Candidates returns the bare filename followed by its local and production URLs.
func (s *UsageScanner) Candidates(filename string) [candidateCount]string {
	return [candidateCount]string{
		candidateBare:       filename,
		candidateLocal:      s.localBase + "/" + filename,
		candidateProduction: s.productionBase + "/" + filename,
	}
}

// CheckUsage scans projects, categories and services for any reference to
// the file named by mediaURL. A failing query fails the whole scan.
func (s *UsageScanner) CheckUsage(ctx context.Context, mediaURL string) (*entity.UsageReport, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		usageChecksTotal.WithLabelValues(resultInvalid).Inc()
		return nil, apperr.MissingField("url", "Image URL is required")
	}
	filename := FilenameOf(mediaURL)
	if filename == "" {
		usageChecksTotal.WithLabelValues(resultInvalid).Inc()
		return nil, apperr.Validation("Image URL must end with a file name")
	}
	candidates := s.Candidates(filename)

	// results[collection][candidate]
	results := make(map[string]*candidateResults, len(entity.UsageCollections))
	for _, collection := range entity.UsageCollections {
		results[collection] = new(candidateResults)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, collection := range entity.UsageCollections {
		hits := results[collection]
		for k, candidate := range candidates {
			g.Go(func() error {
				items, err := s.finder.FindUsage(gctx, entity.NewUsageQuery(collection, candidate))
				if err != nil {
					return err
				}
				hits[k] = items
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		usageChecksTotal.WithLabelValues(resultError).Inc()
		logrus.WithError(err).WithField("filename", filename).Error("media usage scan failed")
		return nil, apperr.Internal(err, "Error checking image usage")
	}

	report := &entity.UsageReport{Filename: filename}
	report.UsageDetails.Projects = mergeUsage(results[entity.CollectionProjects])
	report.UsageDetails.Categories = mergeUsage(results[entity.CollectionCategories])
	report.UsageDetails.Services = mergeUsage(results[entity.CollectionServices])
	report.IsUsed = report.UsageDetails.Projects.Found ||
		report.UsageDetails.Categories.Found ||
		report.UsageDetails.Services.Found
	report.UsageDetails.Environments = entity.UsageEnvironments{
		Local:      environmentOf(candidates[candidateLocal], results, candidateLocal),
		Production: environmentOf(candidates[candidateProduction], results, candidateProduction),
	}

	if report.IsUsed {
		usageChecksTotal.WithLabelValues(resultUsed).Inc()
	} else {
		usageChecksTotal.WithLabelValues(resultUnused).Inc()
	}
	return report, nil
}

// mergeUsage 合并同一集合在各候选串下的结果，按记录 id 去重
func mergeUsage(perCandidate *candidateResults) entity.UsageCollection {
	items := make([]entity.UsageItem, 0)
	seen := make(map[string]struct{})
	raw := 0
	if perCandidate == nil {
		perCandidate = new(candidateResults)
	}
	for _, found := range perCandidate {
		raw += len(found)
		for _, item := range found {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}
	return entity.UsageCollection{
		Found:    len(items) > 0,
		Count:    len(items),
		RawCount: raw,
		Items:    items,
	}
}

func environmentOf(url string, results map[string]*candidateResults, k int) entity.UsageEnvironment {
	hits := func(collection string) int {
		if r := results[collection]; r != nil {
			return len(r[k])
		}
		return 0
	}
	env := entity.UsageEnvironment{
		URL:        url,
		Projects:   hits(entity.CollectionProjects),
		Categories: hits(entity.CollectionCategories),
		Services:   hits(entity.CollectionServices),
	}
	env.Found = env.Projects+env.Categories+env.Services > 0
	return env
}
