package ast

type (
	// FileID identifies a parsed file inside a Builder.
	FileID uint32
	// ItemID identifies a top-level item.
	ItemID uint32
	// ExprID identifies an expression node.
	ExprID uint32
	// PayloadID indexes a per-kind payload arena.
	PayloadID uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoExprID    ExprID    = 0
	NoPayloadID PayloadID = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
