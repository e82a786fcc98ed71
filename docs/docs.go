// Package docs swagger spec untuk /api/solver, disusun dari anotasi swag di pkg/server/rest/handlers.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "lintang birda saputra"
        },
        "license": {
            "name": "GNU Affero General Public License v3.0",
            "url": "https://www.gnu.org/licenses/gpl-3.0.en.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/solver/terrains": {
            "get": {
                "produces": ["application/json"],
                "tags": ["terrains"],
                "summary": "list terrain yang tersimpan.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.TerrainsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["terrains"],
                "summary": "daftarkan terrain grid baru.",
                "parameters": [
                    {"description": "request body terrain", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.CreateTerrainRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/rest.TerrainResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "buat solver session baru di atas terrain.",
                "parameters": [
                    {"description": "request body session", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "snapshot state session (open, closed, final path).",
                "parameters": [{"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "hapus session.",
                "parameters": [{"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/sessions/{id}/solve": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "lanjutkan pencarian session selama budget waktu.",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "id", "in": "path", "required": true},
                    {"description": "budget", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/rest.SolveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/sessions/{id}/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "mulai ulang pencarian session, start & end tetap.",
                "parameters": [{"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SessionView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/sessions/{id}/route": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "rute final session beserta instruksi belok dan polyline.",
                "parameters": [{"type": "string", "description": "session id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.RouteView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/routes/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "solve banyak pasangan start-end sampai selesai.",
                "parameters": [
                    {"description": "request body batch", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.BatchRoutesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.BatchRoutesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        },
        "/solver/routes/{terrain}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "rute yang pernah ditemukan untuk pasangan start-end.",
                "parameters": [
                    {"type": "string", "description": "nama terrain", "name": "terrain", "in": "path", "required": true},
                    {"type": "string", "description": "start cell, format row,col", "name": "start", "in": "query", "required": true},
                    {"type": "string", "description": "end cell, format row,col", "name": "end", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/kv.RouteRecord"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rest.ErrResponse"}}
                }
            }
        }
    },
    "definitions": {
        "datastructure.GridCoordinate": {
            "type": "object",
            "properties": {"row": {"type": "integer"}, "col": {"type": "integer"}}
        },
        "rest.CellRequest": {
            "description": "satu cell terrain (row, col), 0-based",
            "type": "object",
            "properties": {"row": {"type": "integer"}, "col": {"type": "integer"}}
        },
        "rest.CreateTerrainRequest": {
            "type": "object",
            "required": ["name", "rows"],
            "properties": {
                "name": {"type": "string", "maxLength": 64},
                "diagonal": {"type": "boolean"},
                "rows": {"type": "array", "items": {"type": "string"}}
            }
        },
        "rest.TerrainResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "rows": {"type": "integer"},
                "cols": {"type": "integer"},
                "diagonal": {"type": "boolean"}
            }
        },
        "rest.TerrainsResponse": {
            "type": "object",
            "properties": {"terrains": {"type": "array", "items": {"type": "string"}}}
        },
        "rest.CreateSessionRequest": {
            "type": "object",
            "required": ["terrain", "start", "end"],
            "properties": {
                "terrain": {"type": "string"},
                "start": {"$ref": "#/definitions/rest.CellRequest"},
                "end": {"$ref": "#/definitions/rest.CellRequest"},
                "snap": {"type": "boolean"}
            }
        },
        "rest.SolveRequest": {
            "type": "object",
            "properties": {"max_duration_ms": {"type": "integer", "maximum": 60000, "minimum": 0}}
        },
        "rest.PairRequest": {
            "type": "object",
            "properties": {
                "start": {"$ref": "#/definitions/rest.CellRequest"},
                "end": {"$ref": "#/definitions/rest.CellRequest"}
            }
        },
        "rest.BatchRoutesRequest": {
            "type": "object",
            "required": ["terrain", "pairs"],
            "properties": {
                "terrain": {"type": "string"},
                "pairs": {"type": "array", "maxItems": 512, "minItems": 1, "items": {"$ref": "#/definitions/rest.PairRequest"}}
            }
        },
        "rest.BatchRoutesResponse": {
            "type": "object",
            "properties": {
                "terrain": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/service.BatchResult"}}
            }
        },
        "rest.ErrResponse": {
            "description": "model untuk error response",
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "code": {"type": "integer"},
                "error": {"type": "string"},
                "validation": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.SessionView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "terrain": {"type": "string"},
                "created_at": {"type": "string"},
                "state": {"$ref": "#/definitions/pathsolver.Snapshot"}
            }
        },
        "pathsolver.Snapshot": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["STILL_COMPUTING", "SOLUTION_FOUND", "NO_SOLUTION", "NOT_CONFIGURED"]},
                "start": {"$ref": "#/definitions/datastructure.GridCoordinate"},
                "end": {"$ref": "#/definitions/datastructure.GridCoordinate"},
                "open": {"type": "array", "items": {"$ref": "#/definitions/datastructure.GridCoordinate"}},
                "closed": {"type": "array", "items": {"$ref": "#/definitions/datastructure.GridCoordinate"}},
                "final_path": {"type": "array", "items": {"type": "object"}},
                "steps": {"type": "integer"},
                "turns": {"type": "integer"},
                "cost": {"type": "number"}
            }
        },
        "service.RouteView": {
            "type": "object",
            "properties": {
                "terrain": {"type": "string"},
                "path": {"type": "array", "items": {"$ref": "#/definitions/datastructure.GridCoordinate"}},
                "cost": {"type": "number"},
                "turns": {"type": "integer"},
                "steps": {"type": "integer"},
                "polyline": {"type": "string"},
                "instructions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "service.BatchResult": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "start": {"$ref": "#/definitions/datastructure.GridCoordinate"},
                "end": {"$ref": "#/definitions/datastructure.GridCoordinate"},
                "status": {"type": "string"},
                "path": {"type": "array", "items": {"$ref": "#/definitions/datastructure.GridCoordinate"}},
                "cost": {"type": "number"},
                "turns": {"type": "integer"},
                "steps": {"type": "integer"}
            }
        },
        "kv.RouteRecord": {
            "type": "object",
            "properties": {
                "terrain": {"type": "string"},
                "start": {"$ref": "#/definitions/datastructure.GridCoordinate"},
                "end": {"$ref": "#/definitions/datastructure.GridCoordinate"},
                "path": {"type": "array", "items": {"$ref": "#/definitions/datastructure.GridCoordinate"}},
                "cost": {"type": "number"},
                "turns": {"type": "integer"},
                "steps": {"type": "integer"},
                "polyline": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "gridrouter lintangbs API",
	Description:      "incremental time-sliced A* routing engine over terrain grids, tuned for transit lines (long straight segments, few turns)",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
