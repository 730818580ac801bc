// Package errors provides structured error types for better observability
// and programmatic error handling across the testbed.
//
// Every failure that crosses the RPC boundary carries an ErrorCode; the
// server maps codes to HTTP status codes and the client maps them back.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInternal,
//	    "failed to create deployer job",
//	    cause,
//	    map[string]any{
//	        "application": app,
//	        "namespace":   ns,
//	    },
//	)
//
//	if errors.CodeOf(err) == errors.ErrCodeNotFound {
//	    // ...
//	}
package errors
