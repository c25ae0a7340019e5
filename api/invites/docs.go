// Package invites registers the OpenAPI description of the invites API with
// swag. Running go generate in cmd/invites rewrites this file from the
// handler annotations.
package invites

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "description": "Liveness probe endpoint returning basic service health status, uptime, and version information\nThis endpoint always returns 200 OK if the service is running",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe endpoint returning service health status and checks for critical dependencies\nIncludes uptime, version, and status of the database and the auth provider's verification keys",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "status, uptime, version, checks - service not ready",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/invites": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Issue an invite for a resource the caller owns. The token is returned once and never stored.\nOmitted fields default to a 24 hour TTL, one use and the tenant role.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Invitations"
                ],
                "summary": "Issue Invite",
                "parameters": [
                    {
                        "description": "resource_id, ttl_seconds, max_uses, role",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/invitesdk.IssueInviteRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "invite_id, token, resource_id, expires_at, max_uses",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.IssueInviteResponse"
                        }
                    },
                    "400": {
                        "description": "INVALID_REQUEST",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "UNAUTHORIZED - caller does not own the resource",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND - unknown resource",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "SERVER_ERROR",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invites/{token}": {
            "get": {
                "description": "Show what an invite grants without consuming it. Public; rate limited by IP.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Invitations"
                ],
                "summary": "Preview Invite",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invite token",
                        "name": "token",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "resource_id, resource_preview, expires_at, remaining_uses",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.InvitePreviewResponse"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "410": {
                        "description": "EXPIRED, REVOKED or EXHAUSTED",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "RATE_LIMITED",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invites/{token}/redeem": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Redeem an invite for the caller: one use, one resource link, the invite's role if the caller has none,\nand onboarding completion, all or nothing. A caller already linked to the resource succeeds with\nalready_linked=true and consumes nothing, so retrying after an unknown outcome is safe.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Invitations"
                ],
                "summary": "Redeem Invite",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invite token",
                        "name": "token",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "identity_id (optional, must be the caller)",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.RedeemInviteRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "resource_id, role, already_linked",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.RedeemInviteResponse"
                        }
                    },
                    "400": {
                        "description": "INVALID_REQUEST",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "UNAUTHORIZED - identity_id is not the caller",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "410": {
                        "description": "EXPIRED, REVOKED or EXHAUSTED",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "TIMEOUT - nothing was applied, retry with the same token",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invites/{id}/revoke": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Revoke an invite the caller issued. Idempotent. Redemptions already committed are unaffected.",
                "tags": [
                    "Invitations"
                ],
                "summary": "Revoke Invite",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invite ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "revoked"
                    },
                    "403": {
                        "description": "UNAUTHORIZED - caller did not issue the invite",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/resources/{id}/invites": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "List a resource's invites, newest first, with their current status. Tokens are never included.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Invitations"
                ],
                "summary": "List Invites",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "invites",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ListInvitesResponse"
                        }
                    },
                    "403": {
                        "description": "UNAUTHORIZED - caller does not own the resource",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "NOT_FOUND",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/identities/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Return the caller's identity and active resource links.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Identities"
                ],
                "summary": "Get Identity",
                "responses": {
                    "200": {
                        "description": "identity_id, role, onboarding_complete, links",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.IdentityResponse"
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create the caller's identity on first use. Never assigns a role.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Identities"
                ],
                "summary": "Ensure Identity",
                "responses": {
                    "200": {
                        "description": "identity_id, role, onboarding_complete, links",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.IdentityResponse"
                        }
                    },
                    "401": {
                        "description": "UNAUTHORIZED",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/identities/me/role": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Self-onboarding: set the caller's role if none is set. An existing role is never replaced.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Identities"
                ],
                "summary": "Select Role",
                "parameters": [
                    {
                        "description": "role (landlord or tenant)",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/invitesdk.SelectRoleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "identity_id, role, onboarding_complete, links",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.IdentityResponse"
                        }
                    },
                    "400": {
                        "description": "INVALID_REQUEST",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "ROLE_ALREADY_SET",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/resources": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Register a resource (property) owned by the caller so it can be invited to.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Resources"
                ],
                "summary": "Create Resource",
                "parameters": [
                    {
                        "description": "name",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/invitesdk.CreateResourceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "resource_id, owner_id, name, created_at",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ResourceResponse"
                        }
                    },
                    "400": {
                        "description": "INVALID_REQUEST",
                        "schema": {
                            "$ref": "#/definitions/invitesdk.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "description": "Error is one of the ErrorCode constants"
                },
                "error_description": {
                    "type": "string",
                    "description": "ErrorDescription is for humans; branch on Error instead"
                }
            }
        },
        "IssueInviteRequest": {
            "type": "object",
            "properties": {
                "resource_id": {
                    "type": "string"
                },
                "ttl_seconds": {
                    "type": "integer"
                },
                "max_uses": {
                    "type": "integer"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "IssueInviteResponse": {
            "type": "object",
            "properties": {
                "invite_id": {
                    "type": "string"
                },
                "token": {
                    "type": "string"
                },
                "resource_id": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "expires_at": {
                    "type": "string"
                },
                "max_uses": {
                    "type": "integer"
                }
            }
        },
        "InvitePreviewResponse": {
            "type": "object",
            "properties": {
                "resource_id": {
                    "type": "string"
                },
                "resource_preview": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "expires_at": {
                    "type": "string"
                },
                "remaining_uses": {
                    "type": "integer"
                }
            }
        },
        "RedeemInviteRequest": {
            "type": "object",
            "properties": {
                "identity_id": {
                    "type": "string"
                }
            }
        },
        "RedeemInviteResponse": {
            "type": "object",
            "properties": {
                "resource_id": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "already_linked": {
                    "type": "boolean"
                }
            }
        },
        "InviteSummary": {
            "type": "object",
            "properties": {
                "invite_id": {
                    "type": "string"
                },
                "resource_id": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "description": "active|revoked|expired|exhausted"
                },
                "max_uses": {
                    "type": "integer"
                },
                "use_count": {
                    "type": "integer"
                },
                "expires_at": {
                    "type": "string"
                },
                "revoked_at": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "ListInvitesResponse": {
            "type": "object",
            "properties": {
                "invites": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/invitesdk.InviteSummary"
                    }
                }
            }
        },
        "LinkResponse": {
            "type": "object",
            "properties": {
                "resource_id": {
                    "type": "string"
                },
                "invite_id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "IdentityResponse": {
            "type": "object",
            "properties": {
                "identity_id": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "onboarding_complete": {
                    "type": "boolean"
                },
                "links": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/invitesdk.LinkResponse"
                    }
                }
            }
        },
        "SelectRoleRequest": {
            "type": "object",
            "properties": {
                "role": {
                    "type": "string"
                }
            }
        },
        "CreateResourceRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            }
        },
        "ResourceResponse": {
            "type": "object",
            "properties": {
                "resource_id": {
                    "type": "string"
                },
                "owner_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "HealthChecks": {
            "type": "object",
            "properties": {
                "database": {
                    "type": "string"
                },
                "keys": {
                    "type": "string"
                }
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "uptime": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                },
                "checks": {
                    "$ref": "#/definitions/invitesdk.HealthChecks"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Auth provider access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Invites Service API",
	Description:      "Issues time-boxed, limited-use invites to properties and redeems them atomically:\none use, one resource link and at most one role assignment per redemption.\n\nBearer tokens come from the external auth provider and are verified against its EdDSA keys.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
