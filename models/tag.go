package models

// Tag labels projects. ID is the slug of the name.
type Tag struct {
	ID   string `json:"id" gorm:"column:id;type:text;primaryKey"`
	Name string `json:"name" gorm:"column:name;type:text;not null"`
}

func (Tag) TableName() string {
	return "tags"
}
