package service

import (
	"context"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/sirupsen/logrus"
)

// TagSyncStore is the subset of the repository the synchroniser needs.
type TagSyncStore interface {
	DetachMediaFromTags(ctx context.Context, mediaURL string, keepIDs []string) ([]string, error)
	AttachMediaToTags(ctx context.Context, mediaURL string, tagIDs []string) ([]string, error)
	FindTagsForMedia(ctx context.Context, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error)
	RecountTagMedia(ctx context.Context, tagIDs []string) error
}

// TagSynchronizer 将一个媒体文件的标签集合同步为给定集合
type TagSynchronizer struct {
	store TagSyncStore
	mode  string
}

// NewTagSynchronizer 创建同步器，mode 为 media_count 维护方式
func NewTagSynchronizer(store TagSyncStore, mode string) *TagSynchronizer {
	if mode != entity.MediaCountDerived {
		mode = entity.MediaCountStored
	}
	return &TagSynchronizer{store: store, mode: mode}
}

// SetTagsForMedia makes tagIDs the exact set of tags referencing mediaURL.
// An empty tagIDs removes the file from every tag; nil is rejected.
//
// The removal and addition passes run as two bulk writes. A failure between
// them leaves the associations partially updated; calling again with the
// same arguments converges.
func (s *TagSynchronizer) SetTagsForMedia(ctx context.Context, caller Caller, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		tagSyncTotal.WithLabelValues(resultInvalid).Inc()
		return nil, apperr.MissingField("mediaUrl", "Media URL is required")
	}
	if tagIDs == nil {
		tagSyncTotal.WithLabelValues(resultInvalid).Inc()
		return nil, apperr.MissingField("tagIds", "Tag IDs must be an array")
	}
	desired := uniqueIDs(tagIDs)

	logger := logrus.WithFields(logrus.Fields{
		"media_url": mediaURL,
		"tag_ids":   desired,
		"user_id":   caller.ID,
	})

	detached, err := s.store.DetachMediaFromTags(ctx, mediaURL, desired)
	if err != nil {
		tagSyncTotal.WithLabelValues(resultError).Inc()
		logger.WithError(err).Error("removing media from tags failed")
		return nil, apperr.Internal(err, "failed to update media tags")
	}
	attached, err := s.store.AttachMediaToTags(ctx, mediaURL, desired)
	if err != nil {
		tagSyncTotal.WithLabelValues(resultError).Inc()
		logger.WithError(err).WithField("detached", detached).Error("adding media to tags failed after removal pass")
		return nil, apperr.Internal(err, "failed to update media tags")
	}

	if s.mode == entity.MediaCountDerived {
		touched := uniqueIDs(append(append([]string{}, detached...), attached...))
		if err := s.store.RecountTagMedia(ctx, touched); err != nil {
			tagSyncTotal.WithLabelValues(resultError).Inc()
			logger.WithError(err).Error("recounting tag media failed")
			return nil, apperr.Internal(err, "failed to update media tags")
		}
	}

	tags, err := s.store.FindTagsForMedia(ctx, mediaURL, desired)
	if err != nil {
		tagSyncTotal.WithLabelValues(resultError).Inc()
		return nil, apperr.Internal(err, "failed to load updated tags")
	}
	if tags == nil {
		tags = []entity.DbMediaTag{}
	}

	tagSyncTotal.WithLabelValues(resultSuccess).Inc()
	logger.WithFields(logrus.Fields{
		"detached": len(detached),
		"attached": len(attached),
	}).Info("media tags updated")
	return tags, nil
}

// uniqueIDs trims ids and drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
