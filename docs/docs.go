// Package docs registra el documento swagger que sirve /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login de empleado",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Session"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Alta de empleado",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Session"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Empleado autenticado",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Employee"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/enquiries": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Alta pública de consulta",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SubmitEnquiryRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Enquiry"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/enquiries/unclaimed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Cola de consultas sin dueño",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnquiryPage"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/enquiries/my-enquiries": {
            "get": {
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Consultas reclamadas por el caller",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnquiryPage"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/enquiries/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Detalle de una consulta",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enquiry"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/enquiries/{id}/claim": {
            "post": {
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Reclamar una consulta (gana exactamente uno)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enquiry"}},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/enquiries/{id}/status": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Avanzar el estado de una consulta",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SetStatusRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enquiry"}},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/enquiries/{id}/notes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Agregar nota al historial",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AddNoteRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Enquiry"}},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["counselor", "admin"]}
            }
        },
        "Session": {
            "type": "object",
            "properties": {
                "employee": {"$ref": "#/definitions/Employee"},
                "token": {"type": "string"}
            }
        },
        "Employee": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "is_active": {"type": "boolean"},
                "last_login": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "SubmitEnquiryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "course_interest": {"type": "string"},
                "message": {"type": "string"},
                "source": {"type": "string"},
                "priority": {"type": "string"}
            }
        },
        "SetStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["claimed", "contacted", "converted", "lost"]}
            }
        },
        "AddNoteRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "Note": {
            "type": "object",
            "properties": {
                "seq": {"type": "integer"},
                "text": {"type": "string"},
                "added_by": {"type": "string"},
                "added_at": {"type": "string"}
            }
        },
        "Enquiry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "course_interest": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "string"},
                "claimed_by": {"type": "string"},
                "claimed_at": {"type": "string"},
                "source": {"type": "string"},
                "priority": {"type": "string"},
                "notes": {"type": "array", "items": {"$ref": "#/definitions/Note"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Enquiry Desk API",
	Description:      "API de gestión de consultas de admisión.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
