package service

// Request and response dictionary keys. The service's protocol spells every
// key as a dotted path; these constants exist so a typo is a compile error
// instead of a silently absent field.
const (
	KeyRequest      = "key.request"
	KeyName         = "key.name"
	KeySourceFile   = "key.sourcefile"
	KeySourceText   = "key.sourcetext"
	KeyCompilerArgs = "key.compilerargs"
	KeyOffset       = "key.offset"
	KeyLength       = "key.length"
	KeyKind         = "key.kind"
	KeyNameOffset   = "key.nameoffset"
	KeySubstructure = "key.substructure"
	KeySyntaxMap    = "key.syntaxmap"
	KeyUSR          = "key.usr"
	KeyTypeName     = "key.typename"

	// KeyDocComments is the top-level array the doc pipeline appends
	// cursor replies to. It is produced locally, never by the service.
	KeyDocComments = "key.doc.comments"
)

// Request kinds.
const (
	RequestEditorOpen = "source.request.editor.open"
	RequestCursorInfo = "source.request.cursorinfo"
)

// Resolved kind names the enrichment pass dispatches on.
const (
	// DeclPrefix marks declaration kinds
	// (source.lang.swift.decl.function.free, .struct, .var.instance, ...).
	DeclPrefix = "source.lang.swift.decl"

	// KindCommentMark is a MARK/TODO/FIXME heading comment. The service
	// reports its range but not its text; the text comes from the source
	// file.
	KindCommentMark = "source.lang.swift.syntaxtype.comment.mark"
)
