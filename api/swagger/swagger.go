package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Timetable API",
        "description": "Weekly course timetabling, metrics and disruption repair",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Generation, publication and the live view"},
        {"name": "Repairs", "description": "Disruption repair planning and substitutes"}
    ],
    "paths": {
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate timetable proposals",
                "responses": {
                    "201": {"description": "Proposal stored"},
                    "400": {"description": "Invalid request"},
                    "422": {"description": "Dataset failed validation"}
                }
            }
        },
        "/timetables/{proposalId}/publish": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Publish one strategy of a proposal",
                "parameters": [
                    {"name": "proposalId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Published"},
                    "404": {"description": "Proposal not found or expired"}
                }
            }
        },
        "/timetables/published": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the live timetable",
                "responses": {
                    "200": {"description": "Published timetable"},
                    "404": {"description": "No published timetable"}
                }
            }
        },
        "/repairs/plan": {
            "post": {
                "tags": ["Repairs"],
                "summary": "Plan repairs for disruption events",
                "responses": {
                    "200": {"description": "Ranked plans"},
                    "400": {"description": "Invalid events"}
                }
            }
        },
        "/repairs/{planId}/apply": {
            "post": {
                "tags": ["Repairs"],
                "summary": "Apply a repair plan",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Applied"},
                    "404": {"description": "Plan not found or expired"}
                }
            }
        },
        "/repairs/undo": {
            "post": {
                "tags": ["Repairs"],
                "summary": "Undo the last applied repair",
                "responses": {
                    "200": {"description": "Restored"},
                    "409": {"description": "Nothing to undo"}
                }
            }
        },
        "/courses/{code}/substitutes": {
            "get": {
                "tags": ["Repairs"],
                "summary": "Rank substitute faculty for a course",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "exclude", "in": "query", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Ranked candidates"},
                    "404": {"description": "Course code not found"}
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
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
