package upload

import (
	"art_contest_admin/internal/domain/upload/handler"
	"art_contest_admin/internal/pkg/registry"
)

// UploadModule 图片上传
type UploadModule struct{}

func init() {
	registry.Register(&UploadModule{})
}

func (m *UploadModule) Name() string {
	return "upload"
}

func (m *UploadModule) Priority() int {
	return 100 // 最后初始化
}

func (m *UploadModule) Init(ctx *registry.ModuleContext) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	var recorder handler.RejectionRecorder
	if ctx.Metrics != nil {
		recorder = ctx.Metrics
	}

	h := handler.NewUploadHandler(ctx.Uploader, ctx.Config.Upload.MaxBytes(), recorder, ctx.ModuleLogger("upload"))
	h.RegisterRoutes(api)
	return nil
}
