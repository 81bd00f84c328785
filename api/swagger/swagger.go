package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Abroad Search API",
        "description": "Faceted search over countries, universities, majors and blogs",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Search", "description": "Faceted directory search"},
        {"name": "Admin", "description": "Cache administration"}
    ],
    "paths": {
        "/countries": {
            "get": {
                "tags": ["Search"],
                "summary": "List countries",
                "parameters": [
                    {"name": "filterProp", "in": "query", "type": "string", "description": "FilterSpec JSON, optionally URL-encoded; bracketed keys also accepted"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "Destination", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/countries/overview": {
            "get": {
                "tags": ["Search"],
                "summary": "Countries with universities and blogs",
                "parameters": [
                    {"name": "filterProp", "in": "query", "type": "string", "description": "FilterSpec JSON, optionally URL-encoded; bracketed keys also accepted"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "StudyLevel", "in": "query", "type": "string"},
                    {"name": "EntranceExam", "in": "query", "type": "string"},
                    {"name": "UniType", "in": "query", "type": "string"},
                    {"name": "IntakeYear", "in": "query", "type": "string"},
                    {"name": "IntakeMonth", "in": "query", "type": "string"},
                    {"name": "minBudget", "in": "query", "type": "number"},
                    {"name": "maxBudget", "in": "query", "type": "number"},
                    {"name": "ModeOfStudy", "in": "query", "type": "string"},
                    {"name": "MajorDuration", "in": "query", "type": "string", "description": "Months range such as 24-36 or 36+"},
                    {"name": "searchQuery", "in": "query", "type": "string"},
                    {"name": "universityPage", "in": "query", "type": "integer"},
                    {"name": "blogPage", "in": "query", "type": "integer"},
                    {"name": "universityLimit", "in": "query", "type": "integer"},
                    {"name": "blogLimit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/universities/by-country": {
            "get": {
                "tags": ["Search"],
                "summary": "List universities of countries",
                "parameters": [
                    {"name": "countryIds", "in": "query", "type": "string", "required": true, "description": "Comma-separated country ids"},
                    {"name": "filterProp", "in": "query", "type": "string", "description": "FilterSpec JSON, optionally URL-encoded; bracketed keys also accepted"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "StudyLevel", "in": "query", "type": "string"},
                    {"name": "EntranceExam", "in": "query", "type": "string"},
                    {"name": "UniType", "in": "query", "type": "string"},
                    {"name": "IntakeYear", "in": "query", "type": "string"},
                    {"name": "IntakeMonth", "in": "query", "type": "string"},
                    {"name": "minBudget", "in": "query", "type": "number"},
                    {"name": "maxBudget", "in": "query", "type": "number"},
                    {"name": "ModeOfStudy", "in": "query", "type": "string"},
                    {"name": "MajorDuration", "in": "query", "type": "string", "description": "Months range such as 24-36 or 36+"},
                    {"name": "searchQuery", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/majors/by-university": {
            "get": {
                "tags": ["Search"],
                "summary": "List majors of universities",
                "parameters": [
                    {"name": "universityIds", "in": "query", "type": "string", "required": true, "description": "Comma-separated university ids"},
                    {"name": "filterProp", "in": "query", "type": "string", "description": "FilterSpec JSON, optionally URL-encoded; bracketed keys also accepted"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "StudyLevel", "in": "query", "type": "string"},
                    {"name": "EntranceExam", "in": "query", "type": "string"},
                    {"name": "UniType", "in": "query", "type": "string"},
                    {"name": "IntakeYear", "in": "query", "type": "string"},
                    {"name": "IntakeMonth", "in": "query", "type": "string"},
                    {"name": "minBudget", "in": "query", "type": "number"},
                    {"name": "maxBudget", "in": "query", "type": "number"},
                    {"name": "ModeOfStudy", "in": "query", "type": "string"},
                    {"name": "MajorDuration", "in": "query", "type": "string", "description": "Months range such as 24-36 or 36+"},
                    {"name": "searchQuery", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blogs/by-country": {
            "get": {
                "tags": ["Search"],
                "summary": "List blogs of countries",
                "parameters": [
                    {"name": "countryIds", "in": "query", "type": "string", "required": true, "description": "Comma-separated country ids"},
                    {"name": "filterProp", "in": "query", "type": "string", "description": "FilterSpec JSON, optionally URL-encoded; bracketed keys also accepted"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "searchQuery", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/search": {
            "get": {
                "tags": ["Search"],
                "summary": "Full-depth directory search",
                "produces": ["application/json"],
                "description": "Body is brotli or gzip encoded according to Accept-Encoding.",
                "parameters": [
                    {"name": "filterProp", "in": "query", "type": "string", "description": "FilterSpec JSON, optionally URL-encoded; bracketed keys also accepted"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "StudyLevel", "in": "query", "type": "string"},
                    {"name": "EntranceExam", "in": "query", "type": "string"},
                    {"name": "UniType", "in": "query", "type": "string"},
                    {"name": "IntakeYear", "in": "query", "type": "string"},
                    {"name": "IntakeMonth", "in": "query", "type": "string"},
                    {"name": "minBudget", "in": "query", "type": "number"},
                    {"name": "maxBudget", "in": "query", "type": "number"},
                    {"name": "ModeOfStudy", "in": "query", "type": "string"},
                    {"name": "MajorDuration", "in": "query", "type": "string", "description": "Months range such as 24-36 or 36+"},
                    {"name": "searchQuery", "in": "query", "type": "string"},
                    {"name": "universityPage", "in": "query", "type": "integer"},
                    {"name": "majorPage", "in": "query", "type": "integer"},
                    {"name": "blogPage", "in": "query", "type": "integer"},
                    {"name": "universityLimit", "in": "query", "type": "integer"},
                    {"name": "majorLimit", "in": "query", "type": "integer"},
                    {"name": "blogLimit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/cache": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Invalidate cached search results",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "prefix", "in": "query", "type": "string"},
                    {"name": "key", "in": "query", "type": "string"},
                    {"name": "warm", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "description": "The total is reported under total<Entity>, e.g. totalUniversities.",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "hasMore": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "childPagination": {"type": "object"},
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
