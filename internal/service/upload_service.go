package service

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruda-paints/internal/config"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

// UploadService 商品图片存储，根目录与公开前缀由配置注入
type UploadService struct {
	root      string
	urlPrefix string
	maxSize   int64
	types     []string
	exts      []string
	now       func() time.Time
}

// StoredFile 根目录下的已存文件
type StoredFile struct {
	PublicPath string
	ModTime    time.Time
}

// NewUploadService 创建图片存储服务
func NewUploadService(cfg config.UploadConfig) *UploadService {
	root := strings.TrimSpace(cfg.Dir)
	if root == "" {
		root = "./uploads"
	}
	prefix := "/" + strings.Trim(strings.TrimSpace(cfg.URLPrefix), "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &UploadService{
		root:      filepath.Clean(root),
		urlPrefix: prefix,
		maxSize:   maxSize,
		types:     cfg.AllowedTypes,
		exts:      cfg.AllowedExtensions,
		now:       time.Now,
	}
}

// Root 存储根目录
func (s *UploadService) Root() string {
	return s.root
}

// URLPrefix 公开访问前缀
func (s *UploadService) URLPrefix() string {
	return s.urlPrefix
}

// SaveImage 校验并保存商品图片，返回公开路径 /uploads/<毫秒时间戳>-<uuid><ext>
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", NewValidationError("image", "no image provided")
	}
	if file.Size > s.maxSize {
		return "", NewValidationError("image", fmt.Sprintf("image exceeds the %d MB limit", s.maxSize/1024/1024))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.exts) > 0 && (ext == "" || !isAllowedExtension(ext, s.exts)) {
		return "", NewValidationError("image", "only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(buffer[:n])
	if !strings.HasPrefix(contentType, "image/") || (len(s.types) > 0 && !containsFold(s.types, contentType)) {
		return "", NewValidationError("image", "only image files are allowed")
	}
	if _, _, err := decodeImageDimensions(src, contentType); err != nil {
		return "", NewValidationError("image", "image could not be decoded")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	filename := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.New().String(), ext)
	dst, err := os.OpenFile(filepath.Join(s.root, filename), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path.Join(s.urlPrefix, filename), nil
}

// Remove 删除公开路径对应的文件，文件不存在不视为错误
func (s *UploadService) Remove(publicPath string) error {
	full, err := s.resolve(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// ListStored 列出根目录下的文件，供孤儿图片清理使用
func (s *UploadService) ListStored() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload dir: %w", err)
	}
	out := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, StoredFile{PublicPath: path.Join(s.urlPrefix, entry.Name()), ModTime: info.ModTime()})
	}
	return out, nil
}

// resolve 把公开路径映射到根目录内的文件，拒绝越界路径
func (s *UploadService) resolve(publicPath string) (string, error) {
	p := strings.TrimSpace(publicPath)
	if !strings.HasPrefix(p, s.urlPrefix+"/") {
		return "", fmt.Errorf("path %q is outside the upload prefix", publicPath)
	}
	name := strings.TrimPrefix(p, s.urlPrefix+"/")
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("path %q is outside the upload root", publicPath)
	}
	return filepath.Join(s.root, name), nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	if strings.EqualFold(contentType, "image/webp") {
		return decodeWebPDimensions(src)
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func decodeWebPDimensions(src io.Reader) (int, int, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, errors.New("invalid webp header")
	}
	chunk := make([]byte, 8)
	if _, err := io.ReadFull(src, chunk); err != nil {
		return 0, 0, err
	}
	size := int(binary.LittleEndian.Uint32(chunk[4:8]))
	if size < 5 || size > 1<<20 {
		return 0, 0, errors.New("invalid webp chunk")
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(src, data); err != nil {
		return 0, 0, err
	}
	switch string(chunk[0:4]) {
	case "VP8X":
		if len(data) < 10 {
			return 0, 0, errors.New("short VP8X chunk")
		}
		return 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16, 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16, nil
	case "VP8 ":
		if len(data) < 10 {
			return 0, 0, errors.New("short VP8 chunk")
		}
		return int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF), int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF), nil
	case "VP8L":
		if data[0] != 0x2f {
			return 0, 0, errors.New("invalid VP8L signature")
		}
		bits := binary.LittleEndian.Uint32(data[1:5])
		return int(bits&0x3FFF) + 1, int((bits>>14)&0x3FFF) + 1, nil
	}
	return 0, 0, errors.New("unsupported webp chunk")
}
