// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `go generate ./cmd/server` after changing handler annotations.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/easyml-code/ocr-data-insertion"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/invoice/process": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Validates, maps and writes one invoice into the PO and GRN tables.\nA 422 carries the same result body, naming the stage the invoice stopped at.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoice"],
                "summary": "Process one OCR invoice",
                "parameters": [
                    {
                        "description": "OCR payload with dynamic line items and static header fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoice.RawInvoice"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/invoiceapp.ProcessResult"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/invoiceapp.ProcessResult"},
                                        "error": {"$ref": "#/definitions/dto.ErrorInfo"}
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/invoice/process/batch": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs every invoice independently. Once the batch ran the answer is 200;\nper-invoice outcomes are in results.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoice"],
                "summary": "Process a batch of OCR invoices",
                "parameters": [
                    {
                        "description": "Invoices to process",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.BatchProcessRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/invoiceapp.BatchResult"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Pings the database within a short timeout",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.HealthResponse"}}}
                            ]
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/dto.HealthResponse"},
                                        "error": {"$ref": "#/definitions/dto.ErrorInfo"}
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.BatchProcessRequest": {
            "type": "object",
            "required": ["invoices"],
            "properties": {
                "invoices": {
                    "type": "array",
                    "minItems": 1,
                    "items": {"$ref": "#/definitions/invoice.RawInvoice"}
                }
            }
        },
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.ValidationDetail"}},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "allOf": [
                {"$ref": "#/definitions/dto.Response"},
                {"type": "object", "properties": {"error": {"$ref": "#/definitions/dto.ErrorInfo"}}}
            ]
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "status": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "dto.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"},
                "success": {"type": "boolean"}
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "invoice.Fields": {
            "type": "object",
            "additionalProperties": {}
        },
        "invoice.RawInvoice": {
            "type": "object",
            "properties": {
                "dynamic": {"type": "array", "items": {"$ref": "#/definitions/invoice.Fields"}},
                "static": {"$ref": "#/definitions/invoice.Fields"}
            }
        },
        "invoiceapp.BatchResult": {
            "type": "object",
            "properties": {
                "failed": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/invoiceapp.ProcessResult"}},
                "successful": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "invoiceapp.ProcessResult": {
            "type": "object",
            "properties": {
                "details": {"$ref": "#/definitions/procurement.WriteSummary"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "grn_id": {"type": "string"},
                "grn_number": {"type": "string"},
                "invoice_number": {"type": "string"},
                "message": {"type": "string"},
                "po_number": {"type": "string"},
                "stage": {"type": "string", "enum": ["validation", "mapping", "resolution", "write"]},
                "status": {"type": "string", "enum": ["success", "failed"]}
            }
        },
        "procurement.WriteSummary": {
            "type": "object",
            "properties": {
                "grn_header_id": {"type": "string", "format": "uuid"},
                "grn_lines_inserted": {"type": "integer"},
                "po_conditions_inserted": {"type": "integer"},
                "po_header_id": {"type": "string", "format": "uuid"},
                "po_lines_inserted": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "OCR Invoice Ingestion API",
	Description:      "Turns OCR-extracted supplier invoices into purchase order and goods receipt records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
