// Package render substitutes template parameters into resource templates.
//
// Templates are plain manifest text with ${name} placeholders. Rendering is
// strict: a placeholder with no matching parameter is an error, never an
// empty string.
//
//	out, err := render.Render("image: jupyter/base-notebook:${jupyter_version}", p)
package render
