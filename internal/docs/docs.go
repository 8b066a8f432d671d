// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o internal/docs
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
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "Process is up", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Extraction engine not ready", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/ocr/upload": {
            "post": {
                "description": "Upload an image and get its text and a quality score. Identical images are served from the result cache.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["ocr"],
                "summary": "Extract text from an image",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Image to extract text from",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Extraction result",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/handler.UploadResult"}
                                    }
                                }
                            ]
                        }
                    },
                    "400": {"description": "Missing file", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "Extraction failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/ocr/health": {
            "get": {
                "description": "Aggregated health of the extraction engine, result cache and concurrency gate.",
                "produces": ["application/json"],
                "tags": ["ocr"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"$ref": "#/definitions/domain.HealthReport"}},
                    "503": {"description": "Unhealthy", "schema": {"$ref": "#/definitions/domain.HealthReport"}}
                }
            }
        },
        "/ocr/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ocr"],
                "summary": "Service statistics",
                "responses": {
                    "200": {
                        "description": "Service statistics",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/handler.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/domain.ServiceStats"}
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/ocr/model/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ocr"],
                "summary": "Extraction engine metadata",
                "responses": {
                    "200": {"description": "Model information", "schema": {"$ref": "#/definitions/handler.ModelInfoResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.CacheStats": {
            "type": "object",
            "properties": {
                "connected": {"type": "boolean"},
                "error": {"type": "string"},
                "keys": {"type": "integer"},
                "memory": {"type": "string"},
                "uptime": {"type": "integer"}
            }
        },
        "domain.GateStats": {
            "type": "object",
            "properties": {
                "available": {"type": "integer"},
                "capacity": {"type": "integer"},
                "in_use": {"type": "integer"}
            }
        },
        "domain.HealthReport": {
            "type": "object",
            "properties": {
                "service": {"type": "string"},
                "stats": {"$ref": "#/definitions/domain.ServiceStats"},
                "status": {"type": "string", "enum": ["healthy", "unhealthy"]},
                "timestamp": {"type": "string"}
            }
        },
        "domain.ModelInfo": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "description": {"type": "string"},
                "initialized": {"type": "boolean"},
                "languages": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "provider": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "domain.ServiceStats": {
            "type": "object",
            "properties": {
                "cache": {"$ref": "#/definitions/domain.CacheStats"},
                "extraction_available": {"type": "boolean"},
                "gate": {"$ref": "#/definitions/domain.GateStats"},
                "initialized": {"type": "boolean"},
                "service": {"type": "string"}
            }
        },
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "extraction engine not ready"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handler.ModelInfoResponse": {
            "type": "object",
            "properties": {
                "model_info": {"$ref": "#/definitions/domain.ModelInfo"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.UploadResult": {
            "type": "object",
            "properties": {
                "from_cache": {"type": "boolean", "example": false},
                "process_time": {"type": "number", "example": 1.79},
                "quality_score": {"type": "number", "example": 0.92},
                "text": {"type": "string", "example": "INVOICE #1024"},
                "total_time": {"type": "number", "example": 1.84},
                "word_count": {"type": "integer", "example": 42}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ocrgate API",
	Description:      "Document image text extraction with a content-addressed result cache.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
