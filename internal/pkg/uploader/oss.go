package uploader

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"art_contest_admin/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

type Uploader interface {
	// Upload 上传对象并返回可公开访问的 URL
	Upload(ctx context.Context, r io.Reader, folder, ext, contentType string) (string, error)
}

type AliyunOSSUploader struct {
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		bucket: bucket,
		config: cfg,
	}, nil
}

func (u *AliyunOSSUploader) Upload(ctx context.Context, r io.Reader, folder, ext, contentType string) (string, error) {
	// 对象名: folder/YYYYMMDD/uuid.ext
	key := ObjectKey(folder, ext, time.Now())

	err := u.bucket.PutObject(key, r, oss.ContentType(contentType), oss.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("oss put object failed: %w", err)
	}

	return u.publicURL(key), nil
}

// publicURL 假设 bucket 为公共读或配置了 CDN 域名
func (u *AliyunOSSUploader) publicURL(key string) string {
	if u.config.PublicBaseURL != "" {
		return strings.TrimRight(u.config.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key)
}

// ObjectKey 生成唯一对象名
func ObjectKey(folder, ext string, now time.Time) string {
	folder = strings.Trim(folder, "/")
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%s/%s%s", folder, now.Format("20060102"), uuid.New().String(), ext)
}
