// Package docs holds the generated swagger specification served at /swagger/.
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
        "/v1/escrow/init": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Initialize the escrow ledger with an admin principal",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/fund": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["funding"],
                "summary": "Transfer tokens from the caller into the escrow pool",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/escrow/surplus/withdraw": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["funding"],
                "summary": "Withdraw unlocked pool surplus to the admin account",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/packages": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["packages"],
                "summary": "Create an aid package with a caller-chosen id",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/escrow/packages/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["packages"],
                "summary": "Atomically create one package per recipient with auto-assigned ids",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["packages"],
                "summary": "Fetch a package by id",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["packages"],
                "summary": "Report the effective status of a package without persisting expiry",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/claim": {
            "post": {
                "produces": ["application/json"],
                "tags": ["release"],
                "summary": "Claim a package as its recipient",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"},
                    "410": {"description": "Gone"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/disburse": {
            "post": {
                "produces": ["application/json"],
                "tags": ["release"],
                "summary": "Disburse a package to its recipient on the admin's authority",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/revoke": {
            "post": {
                "produces": ["application/json"],
                "tags": ["release"],
                "summary": "Revoke an unclaimed package, releasing its locked funds",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/cancel": {
            "post": {
                "produces": ["application/json"],
                "tags": ["release"],
                "summary": "Cancel an active package, rejecting expired ones",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"},
                    "410": {"description": "Gone"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/refund": {
            "post": {
                "produces": ["application/json"],
                "tags": ["release"],
                "summary": "Return a lapsed package's funds to the admin account",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/packages/{package_id}/extend": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["release"],
                "summary": "Extend an active package's expiry window",
                "parameters": [
                    {"type": "integer", "name": "package_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/v1/escrow/distributors/add": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Grant the distributor role to a principal",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/escrow/distributors/remove": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Revoke the distributor role from a principal",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/escrow/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Read the ledger configuration",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replace the ledger configuration",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/v1/escrow/pause": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Pause package creation and recipient claims",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/escrow/unpause": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Resume package creation and recipient claims",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/v1/escrow/paused": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Report whether the ledger is paused",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/escrow/aggregates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["queries"],
                "summary": "Aggregate package amounts by lifecycle bucket for an asset",
                "parameters": [
                    {"type": "string", "name": "asset", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/v1/escrow/locked": {
            "get": {
                "produces": ["application/json"],
                "tags": ["queries"],
                "summary": "Read the locked balance for an asset",
                "parameters": [
                    {"type": "string", "name": "asset", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/v1/escrow/admin": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Read the admin principal",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
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
	Title:            "AidVault Escrow Ledger API",
	Description:      "Escrow-backed aid disbursement: pool funding, package lifecycle, and locked-balance accounting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
