// Package services implements the driving port interfaces.
// Services contain the core business logic: the authorization policy
// evaluator and the query pipeline (candidate filtering, ordering,
// pagination, redaction, envelope assembly).
//
// Services hold no cross-request state; everything they touch is either
// a request-scoped value or a driven port.
package services
