// Package docs 由 swag 生成，修改接口注释后执行 swag init -g cmd/server/main.go 重新生成
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "管理员登录",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/campaigns/admin/all": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Campaign"],
                "summary": "活动列表",
                "parameters": [{"type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/campaigns/admin/distribute-prizes": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Campaign"],
                "summary": "发放奖金",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/withdrawals/admin/{id}/process": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Withdrawal"],
                "summary": "审核提现",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/coupons": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Coupon"],
                "summary": "优惠券列表",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/push/broadcast": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["Push"],
                "summary": "全量推送",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/upload": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["Upload"],
                "summary": "上传图片到 OSS",
                "parameters": [{"type": "file", "name": "image", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/users": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["User"],
                "summary": "用户列表",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Art Contest Admin API",
	Description:      "艺术比赛后台管理接口",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
