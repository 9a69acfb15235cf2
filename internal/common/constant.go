// Package common contains constants, sentinel errors and small helpers shared
// by the Conecta client and backend.
package common

// APIKeyHeaderName is the gRPC metadata key carrying the signed API key.
const APIKeyHeaderName = "apikey"

// ReportContentType is the MIME type of exported usage reports.
const ReportContentType = "application/json"
