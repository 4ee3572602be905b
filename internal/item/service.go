// Package item は買い物アイテムのドメインロジックを提供する。
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/panier/internal/model"
	"github.com/hitoshi/panier/internal/repository"
	"github.com/hitoshi/panier/internal/security"
)

// MetricsCollector はアイテム操作のメトリクス収集インターフェース。
// nilの場合は記録をスキップする。
type MetricsCollector interface {
	RecordItemMutation(operation string)
}

// Service は買い物アイテムのCRUDサービス。
// 全操作が呼び出しユーザーのuser_idにスコープされる。
type Service struct {
	itemRepo  repository.ShoppingItemRepository
	sanitizer security.ProductSanitizerService
	metrics   MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewService(
	itemRepo repository.ShoppingItemRepository,
	sanitizer security.ProductSanitizerService,
	metrics MetricsCollector,
) *Service {
	return &Service{
		itemRepo:  itemRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
		now:       time.Now,
	}
}

// CreateInput はアイテム作成の入力。
// Quantityがnilまたは0以下の場合は既定値1を使用する。
// 価格はnilのままnullとして保存される。
type CreateInput struct {
	Product       string
	Quantity      *int
	CurrentPrice  *float64
	PreviousPrice *float64
}

// List は呼び出しユーザーの全アイテムをcreated_at降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.ShoppingItem, error) {
	items, err := s.itemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Create は新規アイテムを作成する。
// 商品名は必須で、サニタイズ後に空になる場合もエラーとする。
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*model.ShoppingItem, error) {
	product := s.sanitizer.Sanitize(input.Product)
	if product == "" {
		return nil, model.NewInvalidRequestError("Le produit est requis")
	}

	quantity := model.DefaultQuantity
	if input.Quantity != nil && *input.Quantity > 0 {
		quantity = *input.Quantity
	}

	now := s.now()
	item := &model.ShoppingItem{
		ID:            uuid.New().String(),
		UserID:        userID,
		Product:       product,
		Quantity:      quantity,
		CurrentPrice:  input.CurrentPrice,
		PreviousPrice: input.PreviousPrice,
		Purchased:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.recordMutation("create")
	return item, nil
}

// Update はアイテムを部分更新する。
// 省略されたフィールドは既存の値を維持する。
// purchasedがtrueに設定される場合のみpurchase_dateに現在時刻を刻印する。
// falseに戻してもpurchase_dateはクリアしない（過去の購入記録として残す）。
// 存在しない・非所有のアイテムはどちらもITEM_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, userID, itemID string, update model.ItemUpdate) (*model.ShoppingItem, error) {
	existing, err := s.itemRepo.FindOwned(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if existing == nil {
		return nil, model.NewItemNotFoundError()
	}

	if update.Product != nil {
		product := s.sanitizer.Sanitize(*update.Product)
		if product == "" {
			return nil, model.NewInvalidRequestError("Le produit est requis")
		}
		existing.Product = product
	}
	if update.Quantity != nil && *update.Quantity > 0 {
		existing.Quantity = *update.Quantity
	}
	if update.CurrentPriceSet {
		existing.CurrentPrice = update.CurrentPrice
	}
	if update.PreviousPriceSet {
		existing.PreviousPrice = update.PreviousPrice
	}
	if update.Purchased != nil {
		existing.Purchased = *update.Purchased
		if *update.Purchased {
			purchaseDate := s.now()
			existing.PurchaseDate = &purchaseDate
		}
	}
	existing.UpdatedAt = s.now()

	// 書き込み自体にもuser_id条件が付くため、読み込みとの間に
	// 同時削除が起きた場合はnilが返りITEM_NOT_FOUNDになる。
	updated, err := s.itemRepo.UpdateOwned(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if updated == nil {
		return nil, model.NewItemNotFoundError()
	}

	s.recordMutation("update")
	return updated, nil
}

// Delete はアイテムを削除する。
// 存在しない・非所有のアイテムはどちらもITEM_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	deleted, err := s.itemRepo.DeleteOwned(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if !deleted {
		return model.NewItemNotFoundError()
	}

	s.recordMutation("delete")
	return nil
}

func (s *Service) recordMutation(operation string) {
	if s.metrics != nil {
		s.metrics.RecordItemMutation(operation)
	}
}
