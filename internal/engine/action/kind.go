package action

// Kind identifies the type of document mutation an action records.
type Kind string

// Recognized action kinds.
const (
	KindUnknown   Kind = ""
	KindCreate    Kind = "create"
	KindUpdate    Kind = "update"
	KindDelete    Kind = "delete"
	KindMove      Kind = "move"
	KindResize    Kind = "resize"
	KindRotate    Kind = "rotate"
	KindStyle     Kind = "style"
	KindGroup     Kind = "group"
	KindUngroup   Kind = "ungroup"
	KindDuplicate Kind = "duplicate"
	KindPaste     Kind = "paste"
	KindCut       Kind = "cut"
	KindCopy      Kind = "copy"
	KindUndo      Kind = "undo"
	KindRedo      Kind = "redo"
	KindBatch     Kind = "batch"
)

// Kinds returns all recognized kinds in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindCreate, KindUpdate, KindDelete,
		KindMove, KindResize, KindRotate,
		KindStyle, KindGroup, KindUngroup,
		KindDuplicate, KindPaste, KindCut, KindCopy,
		KindUndo, KindRedo, KindBatch,
	}
}

// IsValid returns true if k is a recognized kind.
func (k Kind) IsValid() bool {
	_, ok := classifications[k]
	return ok
}

// String returns the kind name.
func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}
