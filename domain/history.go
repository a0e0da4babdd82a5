package domain

// HistoryEntry is one line of the append-only audit log.
type HistoryEntry struct {
	ID        int64  `db:"id" json:"id"`
	Operation string `db:"operation" json:"operation"`
	CreatedAt string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}
