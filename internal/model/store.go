package model

type Store struct {
	BaseModel
	Name             string  `db:"name" json:"name"`
	Address          string  `db:"address" json:"address"`
	Phone            string  `db:"phone" json:"phone"`
	Email            string  `db:"email" json:"email"`
	TaxID            *string `db:"tax_id" json:"tax_id"`
	ReturnWindowDays int     `db:"return_window_days" json:"return_window_days"`
}
