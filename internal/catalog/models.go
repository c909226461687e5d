package catalog

// Kind classifies the payload of an item.
type Kind string

const (
	KindText      Kind = "text"
	KindPhoto     Kind = "photo"
	KindDocument  Kind = "document"
	KindVideo     Kind = "video"
	KindAudio     Kind = "audio"
	KindAnimation Kind = "animation"
)

// Kinds lists every supported item kind in a stable order.
var Kinds = []Kind{KindText, KindPhoto, KindDocument, KindVideo, KindAudio, KindAnimation}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindPhoto, KindDocument, KindVideo, KindAudio, KindAnimation:
		return true
	}
	return false
}

// Section is a named node of the content tree. ParentID is nil for
// top-level sections. Siblings order by (position, id).
type Section struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	ParentID *int64 `db:"parent_id"`
	Position int    `db:"position"`
}

// Root reports whether the section sits directly under the root.
func (s Section) Root() bool {
	return s.ParentID == nil
}

// Item is one content unit owned by exactly one section. Body carries the
// text for KindText; FileID carries the Telegram file handle for every
// other kind. Caption applies to media only.
type Item struct {
	ID        int64   `db:"id"`
	SectionID int64   `db:"section_id"`
	Kind      Kind    `db:"kind"`
	Body      *string `db:"body"`
	FileID    *string `db:"file_id"`
	Caption   *string `db:"caption"`
	Position  int     `db:"position"`
}
