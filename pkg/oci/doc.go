// Package oci publishes and fetches testbed application bundles held in
// OCI-compliant registries.
//
// A bundle artifact carries one application directory as a single gzip
// layer, packed with ORAS (OCI Registry As Storage). Pulling a bundle into
// a directory unpacks the layer so the result can be read like any local
// configuration path:
//
//	ref, err := oci.ParseReference("oci://ghcr.io/nvidia/testbed-apps:v1")
//	res, err := oci.Pull(ctx, oci.PullOptions{Reference: ref, DestDir: dir})
//	// dir now contains jupyter/service.yaml, ...
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) using the ORAS credentials package.
package oci
