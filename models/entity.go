package models

// IDNone is the sentinel server id of an entity the server has not
// assigned an id to (form placeholders, rows scraped without an edit
// link, drafts not yet submitted).
const IDNone int64 = 0

// Entity carries the identity shared by every cached domain object:
// the server-assigned id, the local cache row id, and a version counter
// bumped by local edits.
//
// The two ids live in different worlds. ID comes from the legacy
// service and survives re-scrapes; DBID is the cache's auto-increment
// primary key and stays stable while reconciliation rewrites the row in
// place.
type Entity struct {
	ID      int64 `gorm:"column:id;index" json:"id"`
	DBID    uint  `gorm:"column:db_id;primaryKey" json:"-"`
	Version int   `gorm:"column:version;default:0" json:"version"`
}
