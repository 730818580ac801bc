// Package params decodes the template data supplied with a deployment request.
//
// Template data is a JSON object whose values are scalars:
//
//	{"jupyter_version": "notebook-6.0.3"}
//	{'wordpress_version': '5.4', 'replicas': 1}
//
// Decode turns it into a Map of strings for the renderer. Nested shapes are
// rejected with a *DecodeError instead of being stringified.
package params
