package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Programme Directory API",
        "description": "Faceted search and application services for German study programmes",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Programmes", "description": "Public programme search and detail"},
        {"name": "Watchlist", "description": "Saved programmes per user"},
        {"name": "Authentication", "description": "Accounts and sessions"},
        {"name": "MatchReports", "description": "Paid match report product"},
        {"name": "Inquiries", "description": "Public consult inquiries"},
        {"name": "Admin Catalogue", "description": "Programme, university and subject area management"}
    ],
    "paths": {
        "/programmes": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Search study programmes",
                "description": "Faceted search. Facet keys (courseType, language, subjectArea, beginningSemester, studyMode, admissionType, ectsRequired, institutionType, tuitionFee and the premium keys moiLetter, motivationLetter, testRequired, interview, moduleHandbook) are passed as query parameters, multi-value facets comma separated. Premium facets require an entitled token and are silently ignored otherwise.",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string", "description": "Free-text search over title, university and city"},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["latest", "name", "city", "university"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Result page; meta.degraded is true when the database was unavailable", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/programmes/{id}": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Programme detail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/me/entitlement": {
            "get": {
                "tags": ["Programmes"],
                "summary": "Premium filter entitlement for the caller",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/watchlist": {
            "get": {
                "tags": ["Watchlist"],
                "summary": "List saved programmes",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/watchlist/{programmeID}/toggle": {
            "post": {
                "tags": ["Watchlist"],
                "summary": "Toggle watchlist membership",
                "parameters": [{"name": "programmeID", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "data.saved reports the state after the toggle", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/watchlist/status": {
            "get": {
                "tags": ["Watchlist"],
                "summary": "Batched membership flags",
                "parameters": [{"name": "ids", "in": "query", "type": "string", "required": true, "description": "Comma-separated programme IDs"}],
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register an account",
                "responses": {
                    "201": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/match-reports": {
            "post": {
                "tags": ["MatchReports"],
                "summary": "Submit a match report request",
                "consumes": ["multipart/form-data"],
                "description": "Intake form with a transcript document. The response carries the hosted checkout URL; the request stays PENDING_PAYMENT until the payment webhook arrives.",
                "responses": {
                    "201": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "413": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "get": {
                "tags": ["MatchReports"],
                "summary": "List the caller's requests",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/match-reports/{id}/download-url": {
            "get": {
                "tags": ["MatchReports"],
                "summary": "Issue a signed summary download link",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "402": {"description": "Request not paid yet", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/downloads/match-report-summary": {
            "get": {
                "tags": ["MatchReports"],
                "summary": "Download a summary by signed token",
                "produces": ["application/pdf"],
                "parameters": [{"name": "token", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "PDF stream"},
                    "401": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/payments/webhook": {
            "post": {
                "tags": ["MatchReports"],
                "summary": "Checkout provider payment webhook",
                "description": "HMAC-SHA256 signed via the X-Webhook-Signature header. Duplicate deliveries are acknowledged without side effects.",
                "responses": {
                    "200": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/inquiries": {
            "post": {
                "tags": ["Inquiries"],
                "summary": "Submit a consult inquiry",
                "responses": {
                    "201": {"schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
