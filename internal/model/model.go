// Package model defines the records persisted by the repositories.
//
// JSON tags follow the wire format of the API; "_id" is kept for record
// ids so responses look the same on either database backend.
package model
