package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/service"
)

// ImageStore 上传目录的列举与删除
type ImageStore interface {
	ListStored() ([]service.StoredFile, error)
	Remove(publicPath string) error
}

// ImageReferences 返回仍被商品引用的图片路径
type ImageReferences interface {
	ReferencedImages() (map[string]struct{}, error)
}

// OrphanSweeper 清理没有任何商品引用的图片
// 商品删除时的图片清理是尽力而为，残留文件由这里兜底
type OrphanSweeper struct {
	store ImageStore
	refs  ImageReferences
	grace time.Duration
	now   func() time.Time
}

// NewOrphanSweeper 创建清理器，grace 内新写入的文件不会被删除，避免与正在创建的商品竞争
func NewOrphanSweeper(store ImageStore, refs ImageReferences, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{store: store, refs: refs, grace: grace, now: time.Now}
}

// SweepOnce 执行一次清理，返回删除的文件数
func (s *OrphanSweeper) SweepOnce() (int, error) {
	files, err := s.store.ListStored()
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}
	referenced, err := s.refs.ReferencedImages()
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.grace)
	removed := 0
	var errs []error
	for _, file := range files {
		if _, ok := referenced[file.PublicPath]; ok {
			continue
		}
		if file.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Remove(file.PublicPath); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// SweepService 周期执行图片清理
type SweepService struct {
	sweeper  *OrphanSweeper
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSweepService 创建周期清理服务
func NewSweepService(sweeper *OrphanSweeper, interval time.Duration) *SweepService {
	return &SweepService{sweeper: sweeper, interval: interval, stop: make(chan struct{})}
}

// Name 服务名称
func (s *SweepService) Name() string {
	return "orphan_sweep"
}

// Start 启动定时循环，直到 ctx 取消或 Stop 被调用
func (s *SweepService) Start(ctx context.Context) error {
	if s == nil || s.sweeper == nil || s.interval <= 0 {
		return errors.New("orphan sweep not initialized")
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			removed, err := s.sweeper.SweepOnce()
			if err != nil {
				logger.Warnw("orphan_sweep_failed", "removed", removed, "error", err)
				continue
			}
			if removed > 0 {
				logger.Infow("orphan_sweep_done", "removed", removed)
			}
		}
	}
}

// Stop 停止服务
func (s *SweepService) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
