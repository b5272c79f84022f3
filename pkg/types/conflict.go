package types

// ConflictKind classifies why a proposed rename cannot proceed.
type ConflictKind string

const (
	// ConflictTargetExists means the target path is already occupied on disk.
	ConflictTargetExists ConflictKind = "target_exists"

	// ConflictDuplicateTarget means several sources resolve to the same target.
	ConflictDuplicateTarget ConflictKind = "duplicate_target"

	// ConflictIllegalCharacters means the target extension holds characters
	// that cannot be fixed automatically.
	ConflictIllegalCharacters ConflictKind = "illegal_characters"

	// ConflictInvalidExtension means a suffix was appended after a known
	// extension, e.g. "notes.txt_old".
	ConflictInvalidExtension ConflictKind = "invalid_extension"
)

// Conflict is a detected reason a proposed rename should not run.
// Conflicts are values; they are never modified after creation.
type Conflict struct {
	Kind    ConflictKind `json:"kind"`
	SrcPath string       `json:"src_path"`
	TgtPath string       `json:"tgt_path"`
	Message string       `json:"message"`
}

// WithMessage returns a copy of the conflict carrying a different message.
func (c Conflict) WithMessage(msg string) Conflict {
	c.Message = msg
	return c
}

// Pair returns the (source, target) pair the conflict applies to.
func (c Conflict) Pair() Operation {
	return Operation{OriginalPath: c.SrcPath, NewPath: c.TgtPath}
}

// NoticeKind classifies informational validation messages.
type NoticeKind string

const (
	// NoticeAutoFix records an illegal character that was replaced.
	NoticeAutoFix NoticeKind = "auto_fix"

	// NoticeExtensionChange records a file whose extension will change.
	NoticeExtensionChange NoticeKind = "extension_change"
)

// Notice is an informational validation message. Notices never block a rename.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	SrcPath string     `json:"src_path"`
	Message string     `json:"message"`
}
