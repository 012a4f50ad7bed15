package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// ErrUnsupportedImage 在上传内容不是可识别的图片时返回
var ErrUnsupportedImage = errors.New("unsupported image file")

// 缩略图最长边像素
const thumbnailEdge = 128

// StorageService 负责把上传的图片落盘并生成访问路径。
// 数据库中只保存这里返回的引用，永远不保存图片字节。
type StorageService struct {
	uploadDir string
	urlPath   string
}

// IconAsset 聚合一次图标上传产生的文件引用
type IconAsset struct {
	FilePath      string
	ThumbnailPath string
}

// NewStorageService 构造 StorageService
func NewStorageService(uploadDir, urlPath string) *StorageService {
	return &StorageService{uploadDir: uploadDir, urlPath: urlPath}
}

// SaveImage 保存上传的图片并返回访问路径
func (s *StorageService) SaveImage(file *multipart.FileHeader) (string, error) {
	name, _, err := s.persist(file)
	if err != nil {
		return "", err
	}
	return s.url(name), nil
}

// SaveIcon 保存图标原图并生成缩略图，返回两者的访问路径
func (s *StorageService) SaveIcon(file *multipart.FileHeader) (IconAsset, error) {
	name, path, err := s.persist(file)
	if err != nil {
		return IconAsset{}, err
	}

	thumbName, err := s.writeThumbnail(name, path)
	if err != nil {
		return IconAsset{}, err
	}

	return IconAsset{
		FilePath:      s.url(name),
		ThumbnailPath: s.url(thumbName),
	}, nil
}

// persist 校验类型、生成唯一文件名并保存字节
func (s *StorageService) persist(file *multipart.FileHeader) (string, string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrUnsupportedImage
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	// 生成唯一文件名，避免覆盖
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	path := filepath.Join(s.uploadDir, name)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("write upload file: %w", err)
	}

	return name, path, nil
}

// writeThumbnail 把原图等比缩放到最长边 thumbnailEdge 并编码为 PNG
func (s *StorageService) writeThumbnail(name, path string) (string, error) {
	reader, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open saved image: %w", err)
	}
	defer reader.Close()

	src, _, err := image.Decode(reader)
	if err != nil {
		return "", ErrUnsupportedImage
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return "", ErrUnsupportedImage
	}

	thumbWidth, thumbHeight := thumbnailEdge, thumbnailEdge
	if width >= height {
		thumbHeight = height * thumbnailEdge / width
	} else {
		thumbWidth = width * thumbnailEdge / height
	}
	if thumbWidth < 1 {
		thumbWidth = 1
	}
	if thumbHeight < 1 {
		thumbHeight = 1
	}

	thumb := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), src, bounds, draw.Over, nil)

	thumbName := strings.TrimSuffix(name, filepath.Ext(name)) + "_thumb.png"
	out, err := os.Create(filepath.Join(s.uploadDir, thumbName))
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, thumb); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	return thumbName, nil
}

func (s *StorageService) url(name string) string {
	return strings.TrimSuffix(s.urlPath, "/") + "/" + name
}
