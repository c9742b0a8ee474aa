package models

import "time"

// CartLine 购物车行
type CartLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	CartID    uint      `gorm:"not null;index" json:"cart_id"`     // 所属购物车主键
	ProductID uint      `gorm:"not null" json:"product_id"`        // 商品ID（外部服务校验）
	Quantity  int       `gorm:"column:qty;not null" json:"qty"`    // 数量
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
