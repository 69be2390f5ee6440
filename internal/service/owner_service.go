package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// OwnerStore persists the single owner-info record.
type OwnerStore interface {
	GetOwnerInfo(ctx context.Context) (*entity.DbOwnerInfo, error)
	SaveOwnerInfo(ctx context.Context, info *entity.DbOwnerInfo) error
}

// OwnerService 读取并更新站点所有者信息，读取结果带 TTL 缓存
type OwnerService struct {
	store OwnerStore
	cache *expirable.LRU[string, entity.DbOwnerInfo]
}

// NewOwnerService 创建服务；ttl <= 0 时不缓存
func NewOwnerService(store OwnerStore, ttl time.Duration) *OwnerService {
	svc := &OwnerService{store: store}
	if ttl > 0 {
		svc.cache = expirable.NewLRU[string, entity.DbOwnerInfo](1, nil, ttl)
	}
	return svc
}

// Get returns the owner record. A missing record yields an empty one.
func (s *OwnerService) Get(ctx context.Context) (*entity.DbOwnerInfo, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(entity.OwnerInfoID); ok {
			return cloneOwnerInfo(&cached), nil
		}
	}

	info, err := s.store.GetOwnerInfo(ctx)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		info = &entity.DbOwnerInfo{ID: entity.OwnerInfoID}
	case err != nil:
		return nil, apperr.Internal(err, "failed to load owner info")
	}
	if info.Socials == nil {
		info.Socials = entity.StringMap{}
	}

	if s.cache != nil {
		s.cache.Add(entity.OwnerInfoID, *cloneOwnerInfo(info))
	}
	return info, nil
}

// Update applies the provided fields and upserts the record.
func (s *OwnerService) Update(ctx context.Context, caller Caller, req entity.OwnerInfoRequest) (*entity.DbOwnerInfo, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	applyOwnerRequest(current, req)
	current.UpdatedBy = caller.ID
	if err := apperr.ValidateStruct(ownerInput{Email: current.Email}); err != nil {
		return nil, err
	}

	if err := s.store.SaveOwnerInfo(ctx, current); err != nil {
		return nil, apperr.Internal(err, "failed to save owner info")
	}
	if s.cache != nil {
		s.cache.Remove(entity.OwnerInfoID)
	}
	logrus.WithField("user_id", caller.ID).Info("owner info updated")
	return current, nil
}

type ownerInput struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func applyOwnerRequest(info *entity.DbOwnerInfo, req entity.OwnerInfoRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&info.BusinessName, req.BusinessName)
	set(&info.OwnerName, req.OwnerName)
	set(&info.Email, req.Email)
	set(&info.Phone, req.Phone)
	set(&info.Whatsapp, req.Whatsapp)
	set(&info.Address, req.Address)
	set(&info.About, req.About)
	set(&info.LogoURL, req.LogoURL)
	if req.Socials != nil {
		socials := make(entity.StringMap, len(req.Socials))
		for name, link := range req.Socials {
			if link = strings.TrimSpace(link); link != "" {
				socials[strings.ToLower(strings.TrimSpace(name))] = link
			}
		}
		info.Socials = socials
	}
}

func cloneOwnerInfo(info *entity.DbOwnerInfo) *entity.DbOwnerInfo {
	out := *info
	out.Socials = make(entity.StringMap, len(info.Socials))
	for k, v := range info.Socials {
		out.Socials[k] = v
	}
	return &out
}
