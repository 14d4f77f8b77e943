package models

// Category represents a product category.
// Categories flagged InBuilder form the slots of the PC builder; Required
// ones must be filled for a build to be complete.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"not null"`
	Required  bool   `gorm:"not null;default:false"`
	SortOrder int    `gorm:"not null;default:0"`
	InBuilder bool   `gorm:"not null;default:false"`
}

func (c *Category) TableName() string {
	return "categories"
}
