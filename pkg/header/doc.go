// Package header provides the envelope for documents printed by the
// testbed client.
//
// Every client result is wrapped in a Document so saved output is
// self-describing:
//
//	kind: ApplicationInfo
//	apiVersion: testbed.tsunami/v1
//	metadata:
//	  server: http://localhost:8000
//	  timestamp: "2025-06-01T12:00:00Z"
//	  version: v0.3.0
//	result:
//	  serviceEndpoint:
//	    ip: 10.0.0.7
//	    port: "80"
//
// Build one with Wrap:
//
//	doc := header.Wrap(header.KindApplicationInfo, version, info,
//	    header.WithMetadata("server", address))
package header
