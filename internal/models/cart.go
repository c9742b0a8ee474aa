package models

import "time"

// Cart 购物车头
// (user_id, user_cart_id) 由服务端分配，创建后不可变
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键（不对外暴露）
	UserCartID uint      `gorm:"not null;uniqueIndex:idx_carts_user_cart" json:"cart_id"`  // 用户维度购物车编号
	UserID     uint      `gorm:"not null;uniqueIndex:idx_carts_user_cart" json:"user_id"`  // 用户ID
	DiscountID *uint     `gorm:"index" json:"discount_id"`                                 // 折扣引用（可空）
	CreatedAt  time.Time `json:"created_at"`                                               // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                               // 更新时间

	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines,omitempty"` // 购物车行
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
