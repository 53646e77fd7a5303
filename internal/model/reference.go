package model

// Genre 电影类型（由外部维护，本服务只读）
type Genre struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

// Language 语言（由外部维护，本服务只读）
type Language struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

// All 需要迁移的全部模型
func All() []interface{} {
	return []interface{}{&Genre{}, &Language{}, &Movie{}}
}
