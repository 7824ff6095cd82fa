package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/google/uuid"
)

// InterfaceEvidenceService defines the evidence storage interface.
// 核心逻辑只持有返回的引用，从不持久化原始图片字节。
type InterfaceEvidenceService interface {
	Store(imageBytes []byte, contentType string) (string, error)
	Path(ref string) (string, error)
}

// EvidenceService 把现场抓拍的证据照片落盘到上传目录
type EvidenceService struct {
	Dir string
}

// NewEvidenceService 创建一个新的证据存储服务
func NewEvidenceService(cfg *config.Config) InterfaceEvidenceService {
	return &EvidenceService{Dir: cfg.EvidenceDir}
}

// 1 Store 保存图片字节并返回不透明引用
func (s *EvidenceService) Store(imageBytes []byte, contentType string) (string, error) {
	if len(imageBytes) == 0 {
		return "", NewValidationError("image", "不能为空")
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("创建证据目录失败: %w", err)
	}

	ext := ".jpg"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}

	ref := uuid.NewString() + ext
	path := filepath.Join(s.Dir, ref)
	if err := os.WriteFile(path, imageBytes, 0644); err != nil {
		return "", fmt.Errorf("保存证据照片失败: %w", err)
	}

	return ref, nil
}

// 2 Path 根据引用返回照片的本地路径
func (s *EvidenceService) Path(ref string) (string, error) {
	// 拒绝路径穿越
	if ref == "" || strings.Contains(ref, "/") || strings.Contains(ref, "\\") || strings.Contains(ref, "..") {
		return "", NewValidationError("ref", "非法的证据引用")
	}
	path := filepath.Join(s.Dir, ref)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return path, nil
}
