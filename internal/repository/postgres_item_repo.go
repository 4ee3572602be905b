package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/panier/internal/model"
)

// PostgresShoppingItemRepo はPostgreSQLを使用した買い物アイテムリポジトリ。
type PostgresShoppingItemRepo struct {
	db *sql.DB
}

// NewPostgresShoppingItemRepo はPostgresShoppingItemRepoを生成する。
func NewPostgresShoppingItemRepo(db *sql.DB) *PostgresShoppingItemRepo {
	return &PostgresShoppingItemRepo{db: db}
}

const itemColumns = `id, user_id, product, quantity, current_price, previous_price,
	 purchased, purchase_date, created_at, updated_at`

// scanItem は1行をShoppingItemにスキャンする。
func scanItem(row interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	item := &model.ShoppingItem{}
	var currentPrice, previousPrice sql.NullFloat64
	var purchaseDate sql.NullTime

	err := row.Scan(
		&item.ID, &item.UserID, &item.Product, &item.Quantity,
		&currentPrice, &previousPrice,
		&item.Purchased, &purchaseDate,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if currentPrice.Valid {
		item.CurrentPrice = &currentPrice.Float64
	}
	if previousPrice.Valid {
		item.PreviousPrice = &previousPrice.Float64
	}
	if purchaseDate.Valid {
		item.PurchaseDate = &purchaseDate.Time
	}

	return item, nil
}

// ListByUserID はユーザーの全アイテムをcreated_at降順で返す。
func (r *PostgresShoppingItemRepo) ListByUserID(ctx context.Context, userID string) ([]*model.ShoppingItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM shopping_items
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	items := []*model.ShoppingItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping items: %w", err)
	}

	return items, nil
}

// Create はアイテムを作成する。
func (r *PostgresShoppingItemRepo) Create(ctx context.Context, item *model.ShoppingItem) error {
	var currentPrice, previousPrice sql.NullFloat64
	if item.CurrentPrice != nil {
		currentPrice = sql.NullFloat64{Float64: *item.CurrentPrice, Valid: true}
	}
	if item.PreviousPrice != nil {
		previousPrice = sql.NullFloat64{Float64: *item.PreviousPrice, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_items
		 (id, user_id, product, quantity, current_price, previous_price, purchased, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.UserID, item.Product, item.Quantity,
		currentPrice, previousPrice, item.Purchased,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping item: %w", err)
	}

	return nil
}

// FindOwned はIDと所有者でアイテムを取得する。
// 存在しない、または他ユーザー所有の場合はnilを返す。
func (r *PostgresShoppingItemRepo) FindOwned(ctx context.Context, userID, itemID string) (*model.ShoppingItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM shopping_items
		 WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shopping item: %w", err)
	}

	return item, nil
}

// UpdateOwned は所有者条件付きの単一UPDATE文でアイテムを更新する。
// WHERE句にuser_idを含めることで、存在確認と書き込みの間のレースを塞ぐ。
// 更新対象が存在しない・非所有の場合はnilを返す。
func (r *PostgresShoppingItemRepo) UpdateOwned(ctx context.Context, item *model.ShoppingItem) (*model.ShoppingItem, error) {
	var currentPrice, previousPrice sql.NullFloat64
	var purchaseDate sql.NullTime
	if item.CurrentPrice != nil {
		currentPrice = sql.NullFloat64{Float64: *item.CurrentPrice, Valid: true}
	}
	if item.PreviousPrice != nil {
		previousPrice = sql.NullFloat64{Float64: *item.PreviousPrice, Valid: true}
	}
	if item.PurchaseDate != nil {
		purchaseDate = sql.NullTime{Time: *item.PurchaseDate, Valid: true}
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE shopping_items
		 SET product = $3, quantity = $4, current_price = $5, previous_price = $6,
		     purchased = $7, purchase_date = $8, updated_at = $9
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+itemColumns,
		item.ID, item.UserID,
		item.Product, item.Quantity, currentPrice, previousPrice,
		item.Purchased, purchaseDate, item.UpdatedAt,
	)

	updated, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update shopping item: %w", err)
	}

	return updated, nil
}

// DeleteOwned は所有者条件付きの単一DELETE文でアイテムを削除する。
// RowsAffectedで削除の成否を判定し、存在しない場合と非所有の場合を区別しない。
func (r *PostgresShoppingItemRepo) DeleteOwned(ctx context.Context, userID, itemID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete shopping item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ShoppingItemRepository = (*PostgresShoppingItemRepo)(nil)
