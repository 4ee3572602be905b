// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/panier/internal/model"
)

// ErrDuplicateEmail はメールアドレスのUNIQUE制約違反を表す番兵エラー。
// サービス層でEMAIL_TAKENエラーにマッピングされる。
var ErrDuplicateEmail = duplicateEmailError{}

type duplicateEmailError struct{}

func (duplicateEmailError) Error() string { return "email already exists" }

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	// メールアドレスは保存時のまま大文字小文字を区別して照合する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ShoppingItemRepository は買い物アイテムの永続化インターフェース。
// 読み書きすべてのクエリにuser_id条件を付与し、ユーザーデータ分離を
// Repository層で強制する。
type ShoppingItemRepository interface {
	// ListByUserID はユーザーの全アイテムをcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.ShoppingItem, error)

	// Create はアイテムを作成する。
	Create(ctx context.Context, item *model.ShoppingItem) error

	// UpdateOwned は所有者条件付きの単一UPDATE文でアイテムを更新する。
	// 存在しない、または他ユーザー所有の場合はnilを返す（区別しない）。
	UpdateOwned(ctx context.Context, item *model.ShoppingItem) (*model.ShoppingItem, error)

	// FindOwned はIDと所有者でアイテムを取得する。
	// 存在しない、または他ユーザー所有の場合はnilを返す。
	FindOwned(ctx context.Context, userID, itemID string) (*model.ShoppingItem, error)

	// DeleteOwned は所有者条件付きの単一DELETE文でアイテムを削除する。
	// 削除された場合はtrueを返す。存在しない・非所有の場合はfalseを返す。
	DeleteOwned(ctx context.Context, userID, itemID string) (bool, error)
}
