package models

// CartSequence 用户购物车编号序列
type CartSequence struct {
	UserID     uint `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	LastNumber uint `gorm:"not null;default:0" json:"last_number"`
}

// TableName 指定表名
func (CartSequence) TableName() string {
	return "cart_sequences"
}
