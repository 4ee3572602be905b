// Package model はドメインモデルを定義する。
package model

import "time"

// ShoppingItem は買い物リストの1件を表す。各アイテムは必ず1人のユーザーに属する。
// UserIDは作成後に変更されない。
type ShoppingItem struct {
	ID            string
	UserID        string
	Product       string
	Quantity      int
	CurrentPrice  *float64
	PreviousPrice *float64
	Purchased     bool
	PurchaseDate  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ItemUpdate はアイテムの部分更新を表す。
// nilフィールドは変更せず、既存の値を維持する。
// CurrentPriceSet / PreviousPriceSet はフィールドがリクエストに含まれたかを示す。
// 含まれた上で値が空の場合、価格はnullにクリアされる。
type ItemUpdate struct {
	Product          *string
	Quantity         *int
	CurrentPrice     *float64
	CurrentPriceSet  bool
	PreviousPrice    *float64
	PreviousPriceSet bool
	Purchased        *bool
}

// DefaultQuantity は数量が未指定または不正な場合に使用する既定値。
const DefaultQuantity = 1
