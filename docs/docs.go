// Package docs registers the OpenAPI description served at /swagger.
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
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Board: every task in column and position order, with labels and assignees",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Board"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Create a task at the tail of TODO",
                "parameters": [
                    {"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/repository.CreateTaskInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Task"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Get a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Task"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Edit title, description, labels or assignees",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Task"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Delete a task and close the gap in its column",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}/move": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Move a task to a column and slot",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "move", "required": true, "schema": {"$ref": "#/definitions/model.MoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MoveResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Column history of a task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.TaskHistory"}}}
                }
            }
        },
        "/labels": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Labels"],
                "summary": "List labels",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Label"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Labels"],
                "summary": "Create a label",
                "parameters": [{"in": "body", "name": "label", "required": true, "schema": {"$ref": "#/definitions/repository.LabelInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Label"}}}
            }
        },
        "/assignees": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Assignees"],
                "summary": "List assignees",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Assignee"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Assignees"],
                "summary": "Create an assignee",
                "parameters": [{"in": "body", "name": "assignee", "required": true, "schema": {"$ref": "#/definitions/repository.AssigneeInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Assignee"}}}
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handler.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "label_ids": {"type": "array", "items": {"type": "string"}},
                "assignee_ids": {"type": "array", "items": {"type": "string"}},
                "version": {"type": "integer"}
            }
        },
        "repository.CreateTaskInput": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "description": {"type": "string", "maxLength": 2000},
                "label_ids": {"type": "array", "items": {"type": "string"}},
                "assignee_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "repository.LabelInput": {
            "type": "object",
            "required": ["name", "color"],
            "properties": {"name": {"type": "string", "maxLength": 50}, "color": {"type": "string"}}
        },
        "repository.AssigneeInput": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 100}, "email": {"type": "string"}}
        },
        "model.MoveRequest": {
            "type": "object",
            "required": ["target_column"],
            "properties": {
                "target_column": {"type": "string", "enum": ["TODO", "IN_PROGRESS", "TESTING", "DONE"]},
                "target_index": {"type": "integer"},
                "target_anchor_id": {"type": "string"},
                "expected_version": {"type": "integer"}
            }
        },
        "model.MoveResult": {
            "type": "object",
            "properties": {
                "task": {"$ref": "#/definitions/model.Task"},
                "columns": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/model.Task"}}},
                "moved": {"type": "boolean"}
            }
        },
        "model.Board": {
            "type": "object",
            "properties": {
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/model.Task"}},
                "labels": {"type": "array", "items": {"$ref": "#/definitions/model.Label"}},
                "assignees": {"type": "array", "items": {"$ref": "#/definitions/model.Assignee"}}
            }
        },
        "model.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string"},
                "position": {"type": "integer"},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "status_changed_at": {"type": "string"},
                "labels": {"type": "array", "items": {"$ref": "#/definitions/model.Label"}},
                "assignees": {"type": "array", "items": {"$ref": "#/definitions/model.Assignee"}}
            }
        },
        "model.TaskHistory": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "task_id": {"type": "string"},
                "status": {"type": "string"},
                "entered_at": {"type": "string"},
                "exited_at": {"type": "string"},
                "duration": {"type": "integer"}
            }
        },
        "model.Label": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "color": {"type": "string"}, "created_at": {"type": "string"}}
        },
        "model.Assignee": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "created_at": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	Schemes:          []string{"http"},
	Title:            "Task Board API",
	Description:      "Ordered task columns with optimistic, version-checked moves.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
