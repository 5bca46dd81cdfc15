package service

import "github.com/skout-dev/skout/internal/variant"

// EditorOpen builds an editor.open request for one document. Exactly one of
// path and text should be set: path points the service at a file on disk,
// text supplies the source inline. When both are given the inline text wins,
// matching the service's own precedence.
func EditorOpen(name, path, text string) *variant.Dictionary {
	req := variant.NewDictionary(
		variant.P(KeyRequest, variant.String(RequestEditorOpen)),
		variant.P(KeyName, variant.String(name)),
	)
	if text != "" {
		req.Set(KeySourceText, variant.String(text))
	} else {
		req.Set(KeySourceFile, variant.String(path))
	}
	return req
}

// CursorInfoTemplate builds a cursorinfo request with everything but the
// offset filled in. The caller sets key.offset per query; the service wants
// the full compiler invocation every time, so the args ride along in the
// template.
func CursorInfoTemplate(sourceFile string, compilerArgs []string) *variant.Dictionary {
	args := make(variant.Array, len(compilerArgs))
	for i, a := range compilerArgs {
		args[i] = variant.String(a)
	}
	return variant.NewDictionary(
		variant.P(KeyRequest, variant.String(RequestCursorInfo)),
		variant.P(KeySourceFile, variant.String(sourceFile)),
		variant.P(KeyCompilerArgs, args),
	)
}
