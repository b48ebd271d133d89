// Package xrandr wraps the X RandR protocol behind the narrow Client
// surface the reconciliation engine consumes. Nothing above this package
// issues raw xgb requests.
package xrandr
