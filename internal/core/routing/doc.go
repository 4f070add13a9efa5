// Package routing maps request paths to resource names and resource names
// to implementation identifiers.
package routing
