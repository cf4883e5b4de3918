package model

type BankStatementHistory struct {
	ID          int64  `gorm:"primary_key" json:"id"`
	StatementID int64  `gorm:"not null;index" json:"statement_id"`
	Action      string `gorm:"size:30;not null" json:"action"`
	FromState   string `gorm:"size:20" json:"from_state"`
	ToState     string `gorm:"size:20;not null" json:"to_state"`
	Note        string `gorm:"type:text" json:"note,omitempty"`
	CreateTime  int64  `gorm:"not null" json:"create_time"`
	CreateBy    string `gorm:"size:100;not null" json:"create_by"`
}
