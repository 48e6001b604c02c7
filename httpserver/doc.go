/*
Package httpserver implements the HTTP facade over the resource storage
engine.

It exposes the resource API and maps the engine's error kinds onto HTTP
semantics, keeping backend internals out of responses.

# Resource API

  - GET /api/resource/{uuid} - download a resource as an attachment
  - POST /api/resource/upload - create one resource from a multipart form
  - POST /api/resource/uploadList - create one resource per file part
  - DELETE /api/resource/{uuid} - delete a resource

Uploads carry two form values, "bucket" (the logical container) and
"category" (the content classification), plus one or more "file" parts.

# Error Mapping

An unknown identifier on retrieval maps to 404; on deletion it maps to 204,
so deletes are idempotent from the caller's point of view. Creation, batch
creation, read and deletion failures map to 500 with an opaque JSON body
carrying a timestamp and message.

# Diagnostics

The server also exposes /livez, /readyz (which probes the blob store),
/drain and /undrain, an optional pprof mount under /debug, and a separate
Prometheus metrics listener.
*/
package httpserver
