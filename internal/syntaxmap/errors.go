package syntaxmap

import "errors"

var (
	// ErrMalformed reports a payload whose length does not match its own
	// header: a truncated header, or fewer record bytes than the declared
	// token count requires.
	ErrMalformed = errors.New("syntaxmap: malformed binary payload")

	// ErrUnresolvedKind reports a token whose kind UID the service could
	// not name. Every token kind must resolve; an unresolvable one means
	// the payload and the service disagree, so the whole decode is
	// abandoned.
	ErrUnresolvedKind = errors.New("syntaxmap: unresolvable token kind")
)
