// Package bundle locates application templates.
//
// A bundle is a directory tree with one directory per application:
//
//	jupyter/
//	    deployment.yaml
//	    service.yaml
//	wordpress/
//	    kustomization.yaml
//	    mysql-secret.yaml
//	    ...
//
// Bundles come from the binary itself (the built-in jupyter and wordpress
// applications), a local directory, or an oci:// artifact. Within an
// application a kustomization.yaml resources list sets the creation order;
// without one, files are taken depth-first in lexical order.
//
// The package also carries the built-in deployer job template.
package bundle
