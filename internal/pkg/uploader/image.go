package uploader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageTooLarge = errors.New("image size should be less than the upload limit")
	ErrNotImage      = errors.New("please select a valid image file")
	ErrEmptyFile     = errors.New("uploaded file is empty")
)

// Image 通过校验的图片
type Image struct {
	Content     []byte
	ContentType string
	Extension   string
}

// ValidateImage 在写入存储之前校验大小和真实类型
func ValidateImage(file *multipart.FileHeader, maxBytes int64) (*Image, error) {
	if file.Size > maxBytes {
		return nil, fmt.Errorf("%w (%d MB)", ErrImageTooLarge, maxBytes>>20)
	}
	if file.Size == 0 {
		return nil, ErrEmptyFile
	}

	// 声明的类型必须是图片
	declared := file.Header.Get("Content-Type")
	if declared != "" && !isAllowedImage(declared) {
		return nil, ErrNotImage
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 多读一个字节以发现 Size 与实际内容不符的情况
	content, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("%w (%d MB)", ErrImageTooLarge, maxBytes>>20)
	}

	// 以内容嗅探为准
	mtype := mimetype.Detect(content)
	if !isAllowedImage(mtype.String()) {
		return nil, ErrNotImage
	}

	return &Image{
		Content:     content,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}, nil
}

// Reader 返回内容读取器
func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Content)
}

// isAllowedImage 仅接受位图，SVG 可内嵌脚本不允许上传
func isAllowedImage(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.HasPrefix(ct, "image/") && ct != "image/svg+xml"
}
