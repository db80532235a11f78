package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Availability API",
        "description": "Instructor time-slot availability scheduler",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Availability", "description": "Instructor availability windows, recurring slots and notices"}
    ],
    "paths": {
        "/instructors/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get instructor availability for a date range",
                "parameters": [
                    {"$ref": "#/parameters/InstructorID"},
                    {"name": "start_date", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Declared and occupied cells", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown instructor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/availability/window": {
            "put": {
                "tags": ["Availability"],
                "summary": "Replace instructor availability inside a window",
                "parameters": [
                    {"$ref": "#/parameters/InstructorID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceWindowRequest"}}
                ],
                "responses": {
                    "200": {"description": "Stored window", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Rejected slots listed in error.details", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/availability/recurring": {
            "post": {
                "tags": ["Availability"],
                "summary": "Add availability slots without replacing existing ones",
                "parameters": [
                    {"$ref": "#/parameters/InstructorID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-entry outcomes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/availability/recurring/expand": {
            "post": {
                "tags": ["Availability"],
                "summary": "Repeat one slot weekly for 4 or 12 weeks",
                "parameters": [
                    {"$ref": "#/parameters/InstructorID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExpandRecurringRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-entry outcomes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/availability/grid": {
            "get": {
                "tags": ["Availability"],
                "summary": "Resolved cell states for one week",
                "parameters": [
                    {"$ref": "#/parameters/InstructorID"},
                    {"name": "week_start", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Week grid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}/availability/export": {
            "get": {
                "tags": ["Availability"],
                "summary": "Download a week of availability",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/InstructorID"},
                    {"name": "week_start", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}}
                }
            }
        },
        "/availability/timeslots": {
            "get": {
                "tags": ["Availability"],
                "summary": "List the daily slot catalog",
                "responses": {
                    "200": {"description": "Slots", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/weeks": {
            "get": {
                "tags": ["Availability"],
                "summary": "List the Monday of every week overlapping a year",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Week starts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/notices": {
            "get": {
                "tags": ["Availability"],
                "summary": "List the caller's dropped-recurrence notices",
                "parameters": [
                    {"name": "unread", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Notices", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/notices/{notice_id}/read": {
            "post": {
                "tags": ["Availability"],
                "summary": "Acknowledge a notice",
                "parameters": [
                    {"name": "notice_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Acknowledged"},
                    "404": {"description": "Unknown notice"}
                }
            }
        }
    },
    "parameters": {
        "InstructorID": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "definitions": {
        "SlotEntry": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "timeslot_id": {"type": "integer", "minimum": 1, "maximum": 6}
            }
        },
        "ReplaceWindowRequest": {
            "type": "object",
            "required": ["start_date", "end_date"],
            "properties": {
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotEntry"}}
            }
        },
        "AddSlotsRequest": {
            "type": "object",
            "required": ["slots"],
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotEntry"}}
            }
        },
        "ExpandRecurringRequest": {
            "type": "object",
            "required": ["date", "timeslot_id", "weeks"],
            "properties": {
                "date": {"type": "string", "format": "date"},
                "timeslot_id": {"type": "integer", "minimum": 1, "maximum": 6},
                "weeks": {"type": "integer", "enum": [4, 12]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
