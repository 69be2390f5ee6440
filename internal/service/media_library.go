package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
	"github.com/krsnavtr-code/rudra360-sub000/internal/storage"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const (
	mediaCategory     = "media"
	thumbnailCategory = "thumbnails"
	thumbnailSize     = 320
)

// MediaStore is the media-asset subset of the repository.
type MediaStore interface {
	CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error
	GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error)
	ListMediaAssets(ctx context.Context, params *entity.MediaQuery) ([]entity.DbMediaAsset, *entity.Meta, error)
	DeleteMediaAsset(ctx context.Context, id string) error
}

// TagReferenceFinder looks up tags that reference a media URL.
type TagReferenceFinder interface {
	FindTagsForMedia(ctx context.Context, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error)
}

// MediaLibraryOptions 媒体库配置
type MediaLibraryOptions struct {
	PublicBase string
	MaxBytes   int64
	CountMode  string
}

// MediaLibrary 管理上传的媒体文件
type MediaLibrary struct {
	store      MediaStore
	tags       TagReferenceFinder
	scanner    *UsageScanner
	storage    storage.Storage
	publicBase string
	maxBytes   int64
	mode       string
}

// NewMediaLibrary 创建媒体库服务
func NewMediaLibrary(store MediaStore, tags TagReferenceFinder, scanner *UsageScanner, files storage.Storage, opts MediaLibraryOptions) *MediaLibrary {
	mode := opts.CountMode
	if mode != entity.MediaCountDerived {
		mode = entity.MediaCountStored
	}
	return &MediaLibrary{
		store:      store,
		tags:       tags,
		scanner:    scanner,
		storage:    files,
		publicBase: storage.NormalisePublicBase(opts.PublicBase),
		maxBytes:   opts.MaxBytes,
		mode:       mode,
	}
}

// Upload stores data and records it in the library. Images also get a
// thumbnail and their dimensions.
func (l *MediaLibrary) Upload(ctx context.Context, caller Caller, originalName string, data []byte) (*entity.DbMediaAsset, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.MissingField("file", "file is required")
	}
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return nil, apperr.Validation(fmt.Sprintf("file exceeds the %d MB upload limit", l.maxBytes>>20)).
			WithStatus(http.StatusRequestEntityTooLarge)
	}

	mtype := mimetype.Detect(data)
	kind := mediaKindOf(mtype)
	if kind == "" {
		return nil, apperr.Validation(fmt.Sprintf("unsupported file type: %s", mtype.String())).
			WithDetails(map[string]string{"mime_type": mtype.String()})
	}

	id := entity.NewID()
	ext := mtype.Extension()
	key, err := l.storage.Save(ctx, data, storage.SaveOptions{
		Category:    mediaCategory,
		BaseName:    id,
		Extension:   ext,
		ContentType: mtype.String(),
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to store file")
	}

	asset := &entity.DbMediaAsset{
		ID:           id,
		Filename:     path.Base(key),
		OriginalName: strings.TrimSpace(originalName),
		Kind:         kind,
		MimeType:     mtype.String(),
		Size:         int64(len(data)),
		StorageKey:   key,
		URL:          storage.PublicURL(l.publicBase, key),
		UploadedBy:   caller.ID,
	}
	if kind == entity.MediaKindImage {
		l.attachThumbnail(ctx, asset, data, ext)
	}

	if err := l.store.CreateMediaAsset(ctx, asset); err != nil {
		l.removeObjects(ctx, asset)
		return nil, apperr.Internal(err, "failed to record media file")
	}
	logrus.WithFields(logrus.Fields{
		"media_id": asset.ID,
		"key":      asset.StorageKey,
		"size":     asset.Size,
	}).Info("media uploaded")
	return asset, nil
}

// attachThumbnail 解码图片并生成缩略图；无法解码的格式（如 svg）跳过
func (l *MediaLibrary) attachThumbnail(ctx context.Context, asset *entity.DbMediaAsset, data []byte, ext string) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		logrus.WithError(err).WithField("mime_type", asset.MimeType).Debug("skip thumbnail for undecodable image")
		return
	}
	bounds := img.Bounds()
	asset.Width, asset.Height = bounds.Dx(), bounds.Dy()

	thumb, thumbExt, err := encodeThumbnail(img, ext)
	if err != nil {
		logrus.WithError(err).Warn("encode thumbnail failed")
		return
	}
	key, err := l.storage.Save(ctx, thumb, storage.SaveOptions{
		Category:  thumbnailCategory,
		BaseName:  asset.ID,
		Extension: thumbExt,
	})
	if err != nil {
		logrus.WithError(err).Warn("store thumbnail failed")
		return
	}
	asset.ThumbnailKey = key
	asset.ThumbnailURL = storage.PublicURL(l.publicBase, key)
}

func encodeThumbnail(img image.Image, ext string) ([]byte, string, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil || (format != imaging.PNG && format != imaging.JPEG) {
		format, ext = imaging.JPEG, ".jpg"
	}
	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ext, nil
}

// List returns a page of media assets, newest first.
func (l *MediaLibrary) List(ctx context.Context, query entity.MediaQuery) ([]entity.DbMediaAsset, *entity.Meta, error) {
	if query.Limit > 0 {
		query.PageSize = query.Limit
	}
	assets, meta, err := l.store.ListMediaAssets(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to list media")
	}
	if assets == nil {
		assets = []entity.DbMediaAsset{}
	}
	return assets, meta, nil
}

// CheckUsage reports where the file behind mediaURL is referenced.
func (l *MediaLibrary) CheckUsage(ctx context.Context, mediaURL string) (*entity.UsageReport, error) {
	return l.scanner.CheckUsage(ctx, mediaURL)
}

// Delete removes an asset that is neither referenced by content nor held by
// a tag that counts as in use.
func (l *MediaLibrary) Delete(ctx context.Context, caller Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	asset, err := l.store.GetMediaAsset(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return apperr.NotFound(apperr.CodeMediaNotFound, "media file not found")
		}
		return apperr.Internal(err, "failed to load media file")
	}

	report, err := l.scanner.CheckUsage(ctx, asset.URL)
	if err != nil {
		return err
	}
	if report.IsUsed {
		return apperr.Conflict(apperr.CodeMediaInUse, "media file is in use").WithDetails(report.UsageDetails)
	}

	holders, err := l.tagHolders(ctx, asset)
	if err != nil {
		return apperr.Internal(err, "failed to check media tags")
	}
	if len(holders) > 0 {
		return apperr.Conflict(apperr.CodeMediaInUse, "media file is in use").
			WithDetails(map[string][]string{"tags": holders})
	}

	if err := l.store.DeleteMediaAsset(ctx, asset.ID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return apperr.NotFound(apperr.CodeMediaNotFound, "media file not found")
		}
		return apperr.Internal(err, "failed to delete media file")
	}
	l.removeObjects(ctx, asset)
	logrus.WithFields(logrus.Fields{"media_id": asset.ID, "user_id": caller.ID}).Info("media deleted")
	return nil
}

// tagHolders 返回以 URL 或文件名引用该媒体且处于使用状态的标签名
func (l *MediaLibrary) tagHolders(ctx context.Context, asset *entity.DbMediaAsset) ([]string, error) {
	holders := make([]string, 0)
	seen := make(map[string]struct{})
	for _, ref := range []string{asset.URL, asset.Filename} {
		if ref == "" {
			continue
		}
		tags, err := l.tags.FindTagsForMedia(ctx, ref, nil)
		if err != nil {
			return nil, err
		}
		for i := range tags {
			if _, ok := seen[tags[i].ID]; ok || !tags[i].InUse(l.mode) {
				continue
			}
			seen[tags[i].ID] = struct{}{}
			holders = append(holders, tags[i].Name)
		}
	}
	return holders, nil
}

func (l *MediaLibrary) removeObjects(ctx context.Context, asset *entity.DbMediaAsset) {
	for _, key := range []string{asset.StorageKey, asset.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := l.storage.Delete(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("remove stored object failed")
		}
	}
}

func mediaKindOf(mtype *mimetype.MIME) string {
	switch {
	case strings.HasPrefix(mtype.String(), "image/"):
		return entity.MediaKindImage
	case strings.HasPrefix(mtype.String(), "video/"):
		return entity.MediaKindVideo
	case mtype.Is("application/pdf"):
		return entity.MediaKindDocument
	default:
		return ""
	}
}
