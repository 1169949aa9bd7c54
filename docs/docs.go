// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g internal/http/router.go -o docs
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
        "/ideas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ideas"],
                "summary": "List ideas",
                "operationId": "listIdeas",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"},
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"},
                    {"enum": ["rating", "votes"], "type": "string", "default": "rating", "description": "Sort key", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListIdeasResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ideas"],
                "summary": "Submit an idea",
                "description": "Supports safe retries via the Idempotency-Key header: a repeated key returns the first response with Idempotency-Replayed: true.",
                "operationId": "submitIdea",
                "parameters": [
                    {"type": "string", "example": "7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab", "description": "Key for safe retries (UUID recommended)", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Idea submission", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SubmitIdeaRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Idea"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/ideas/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ideas"],
                "summary": "Get an idea",
                "operationId": "getIdea",
                "parameters": [{"type": "string", "description": "Idea ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Idea"}},
                    "404": {"description": "Idea not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/ideas/{id}/vote": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Votes"],
                "summary": "Vote for an idea",
                "operationId": "addVote",
                "parameters": [{"type": "string", "description": "Idea ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.VoteResponse"}},
                    "404": {"description": "Idea not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Votes"],
                "summary": "Retract a vote",
                "operationId": "removeVote",
                "parameters": [{"type": "string", "description": "Idea ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.VoteResponse"}},
                    "409": {"description": "Votes are final in one-shot mode", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/ideas/{id}/vote/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Votes"],
                "summary": "Toggle a vote",
                "operationId": "toggleVote",
                "parameters": [{"type": "string", "description": "Idea ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.VoteResponse"}},
                    "404": {"description": "Idea not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Votes are final in one-shot mode", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/votes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Votes"],
                "summary": "List the local user's votes",
                "operationId": "listVotes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.VotesResponse"}}}
            }
        },
        "/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ideas"],
                "summary": "Top ideas",
                "operationId": "leaderboard",
                "parameters": [
                    {"enum": ["votes", "rating"], "type": "string", "default": "votes", "description": "Sort key", "name": "sort", "in": "query"},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 5, "description": "Number of entries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LeaderboardResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Ideas"],
                "summary": "List categories",
                "operationId": "listCategories",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CategoriesResponse"}}}
            }
        },
        "/preferences": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Get presentation preferences",
                "operationId": "getPreferences",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/services.AppState"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Set the theme",
                "operationId": "updatePreferences",
                "parameters": [
                    {"description": "Preferences", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdatePreferencesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.AppState"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/preferences/theme/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Toggle between light and dark",
                "operationId": "toggleTheme",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.AppState"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/reset": {
            "post": {
                "tags": ["Admin"],
                "summary": "Delete all ideas and votes",
                "operationId": "resetData",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/seed": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Replace the collection with the sample ideas",
                "description": "Existing ideas and the local vote set are discarded.",
                "operationId": "seedData",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListIdeasResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Idea": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "tagline": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "rating": {"type": "integer"},
                "feedback": {"type": "string"},
                "votes": {"type": "integer"},
                "voted": {"type": "boolean"},
                "submittedAt": {"type": "string", "format": "date-time"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "resource not found"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handlers.SubmitIdeaRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "EcoDelivery"},
                "tagline": {"type": "string", "example": "Carbon-neutral food delivery"},
                "description": {"type": "string", "example": "A food delivery service that uses only electric bikes and cars."},
                "category": {"type": "string", "example": "FoodTech"}
            }
        },
        "handlers.ListIdeasResponse": {
            "type": "object",
            "properties": {
                "ideas": {"type": "array", "items": {"$ref": "#/definitions/domain.Idea"}},
                "summary": {"$ref": "#/definitions/search.Summary"},
                "text": {"type": "string", "example": "Showing 2 of 3 ideas"}
            }
        },
        "search.Summary": {
            "type": "object",
            "properties": {
                "showing": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handlers.VoteResponse": {
            "type": "object",
            "properties": {
                "idea_id": {"type": "string", "example": "sample-1"},
                "voted": {"type": "boolean"},
                "changed": {"type": "boolean"},
                "votes": {"type": "integer"}
            }
        },
        "handlers.VotesResponse": {
            "type": "object",
            "properties": {
                "idea_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.LeaderboardResponse": {
            "type": "object",
            "properties": {
                "sort": {"type": "string", "example": "votes"},
                "stats": {"$ref": "#/definitions/search.Stats"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/handlers.LeaderboardEntry"}}
            }
        },
        "search.Stats": {
            "type": "object",
            "properties": {
                "ideas": {"type": "integer", "example": 3},
                "total_votes": {"type": "integer", "example": 35},
                "avg_rating": {"type": "integer", "description": "Mean rating rounded half up; 0 without ideas.", "example": 85}
            }
        },
        "handlers.LeaderboardEntry": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "badge": {"type": "string"},
                "rating_tier": {"type": "string"},
                "idea": {"$ref": "#/definitions/domain.Idea"},
                "age": {"type": "string", "example": "3 days ago"}
            }
        },
        "handlers.CategoriesResponse": {
            "type": "object",
            "properties": {
                "filter": {"type": "array", "items": {"type": "string"}},
                "submit": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.UpdatePreferencesRequest": {
            "type": "object",
            "required": ["theme"],
            "properties": {
                "theme": {"type": "string", "example": "dark"}
            }
        },
        "services.AppState": {
            "type": "object",
            "properties": {
                "theme": {"type": "string"},
                "saved": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Idea Board API",
	Description:      "Submit startup ideas, get an instant rating, vote, and browse the leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
