// Package gofile exposes a typed client for the gofile.io REST API: account
// details, folder and file management, content options, and streaming
// multipart uploads against the per-account upload servers.
//
// Unauthenticated callers start with New and can query upload servers or
// upload as guests; Authorize attaches an account token and unlocks the
// account-scoped operations. Every call takes a context.Context and returns
// an explicit error; API-level refusals (*APIError), HTTP-level failures
// (*HTTPError) and transport errors stay distinguishable with errors.As.
package gofile
