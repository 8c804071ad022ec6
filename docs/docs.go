// Package docs registers the OpenAPI document served at /docs. Regenerate
// with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Root probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/healthz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Health probe",
                "responses": {"200": {"description": "healthy", "schema": {"type": "string"}}}
            }
        },
        "/health/db": {
            "get": {
                "description": "Verifies store connectivity and reports the latest ETL run, or data \"not_ready\" before the first run.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/cache": {
            "get": {
                "description": "Returns read-API cache statistics (active keys, expired keys).",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Cache health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/chat": {
            "post": {
                "description": "Answers average-points and last-game questions about NBA teams. Unrecognised questions, unknown teams and missing data are still 200 answers.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Ask a question",
                "parameters": [
                    {"description": "Question", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ChatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/ui": {
            "get": {
                "produces": ["text/html"],
                "tags": ["chat"],
                "summary": "Test page",
                "responses": {"200": {"description": "HTML page", "schema": {"type": "string"}}}
            }
        },
        "/api/v1/teams": {
            "get": {
                "description": "Returns all teams loaded by the last ETL run.",
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "List teams",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/store.Team"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/leaders": {
            "get": {
                "description": "Returns points-per-game leaders for a season (end year, e.g. 2024 or 2023-24). Defaults to the latest season loaded.",
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Season scoring leaders",
                "parameters": [
                    {"type": "string", "description": "Season", "name": "season", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Maximum rows (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/store.SeasonLeader"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/team-stats": {
            "get": {
                "description": "Best-effort lookup of the CSV team stats, matching the team's full name, city and mascot, or abbreviation.",
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Team season stats",
                "parameters": [
                    {"type": "string", "description": "Team name, nickname or abbreviation", "name": "team", "in": "query", "required": true},
                    {"type": "string", "description": "Season", "name": "season", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/store.TeamSeasonStat"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ChatRequest": {
            "type": "object",
            "properties": {"question": {"type": "string", "example": "Average points for the Lakers in 2024"}}
        },
        "handler.ChatResponse": {
            "type": "object",
            "properties": {"answer": {"type": "string", "example": "Los Angeles Lakers averaged 115.0 PPG in 2024."}}
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "store.Team": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "abbreviation": {"type": "string"},
                "city": {"type": "string"},
                "conference": {"type": "string"},
                "division": {"type": "string"}
            }
        },
        "store.SeasonLeader": {
            "type": "object",
            "properties": {
                "season": {"type": "integer"},
                "rank": {"type": "integer"},
                "player_id": {"type": "integer"},
                "player_name": {"type": "string"},
                "team": {"type": "string"},
                "games_played": {"type": "integer"},
                "pts": {"type": "number"}
            }
        },
        "store.TeamSeasonStat": {
            "type": "object",
            "properties": {
                "team": {"type": "string"},
                "season": {"type": "integer"},
                "pts": {"type": "number"},
                "fg_pct": {"type": "number"},
                "ast": {"type": "number"},
                "trb": {"type": "number"}
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
	Title:            "NBA Stats Bot API",
	Description:      "Answers simple questions about NBA team scoring and recent games.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
