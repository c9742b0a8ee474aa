package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dujiao-next/cart/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCartNotFound 购物车不存在
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartNumberConflict 用户购物车编号冲突
	ErrCartNumberConflict = errors.New("cart number conflict")
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	Create(ctx context.Context, userID uint, discountID *uint, lines []models.CartLine) (uint, error)
	GetByUserCart(ctx context.Context, userID, userCartID uint) (*models.Cart, []models.CartLine, error)
	ReplaceByUserCart(ctx context.Context, userID, userCartID uint, discountID *uint, lines []models.CartLine) error
	DeleteByUserCart(ctx context.Context, userID, userCartID uint) error
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

var _ CartRepository = (*GormCartRepository)(nil)

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create 创建购物车头与购物车行，返回分配的用户购物车编号
func (r *GormCartRepository) Create(ctx context.Context, userID uint, discountID *uint, lines []models.CartLine) (uint, error) {
	var userCartID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextUserCartID(tx, userID)
		if err != nil {
			return err
		}
		cart := &models.Cart{
			UserCartID: next,
			UserID:     userID,
			DiscountID: discountID,
		}
		if err := tx.Omit(clause.Associations).Create(cart).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrCartNumberConflict
			}
			return err
		}
		if err := insertLines(tx, cart.ID, lines); err != nil {
			return err
		}
		userCartID = cart.UserCartID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userCartID, nil
}

// GetByUserCart 获取购物车头与购物车行（按写入顺序）
func (r *GormCartRepository) GetByUserCart(ctx context.Context, userID, userCartID uint) (*models.Cart, []models.CartLine, error) {
	var cart models.Cart
	var lines []models.CartLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND user_cart_id = ?", userID, userCartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}
		return tx.Where("cart_id = ?", cart.ID).Order("id asc").Find(&lines).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &cart, lines, nil
}

// ReplaceByUserCart 更新折扣引用并整体替换购物车行
func (r *GormCartRepository) ReplaceByUserCart(ctx context.Context, userID, userCartID uint, discountID *uint, lines []models.CartLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockUserCart(tx, userID, userCartID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"discount_id": discountID,
			"updated_at":  time.Now(),
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		return insertLines(tx, cart.ID, lines)
	})
}

// DeleteByUserCart 删除购物车头及其全部购物车行
func (r *GormCartRepository) DeleteByUserCart(ctx context.Context, userID, userCartID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := lockUserCart(tx, userID, userCartID)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", cart.ID).Delete(&models.Cart{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCartNotFound
		}
		return nil
	})
}

// nextUserCartID 推进用户编号序列；序列行的更新会持有行锁直到事务结束，
// 同一用户的并发创建因此串行化。首次使用时以已有购物车的最大编号作为起点。
func nextUserCartID(tx *gorm.DB, userID uint) (uint, error) {
	var maxExisting uint
	if err := tx.Model(&models.Cart{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(user_cart_id), 0)").
		Scan(&maxExisting).Error; err != nil {
		return 0, err
	}
	seed := &models.CartSequence{UserID: userID, LastNumber: maxExisting}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&models.CartSequence{}).
		Where("user_id = ?", userID).
		UpdateColumn("last_number", gorm.Expr("last_number + 1")).Error; err != nil {
		return 0, err
	}
	var seq models.CartSequence
	if err := tx.Where("user_id = ?", userID).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

func lockUserCart(tx *gorm.DB, userID, userCartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND user_cart_id = ?", userID, userCartID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func insertLines(tx *gorm.DB, cartID uint, lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.CartLine{
			CartID:    cartID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return tx.Create(&rows).Error
}

// isUniqueViolation 识别唯一约束冲突（postgres 23505 / sqlite UNIQUE）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
