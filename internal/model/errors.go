// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け、フランス語）
	Category string // カテゴリ: auth, validation, item, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeItemNotFound       = "ITEM_NOT_FOUND"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Non autorisé",
		Category: "auth",
		Action:   "Veuillez vous connecter.",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレス不明とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Email ou mot de passe incorrect",
		Category: "auth",
		Action:   "Vérifiez vos identifiants et réessayez.",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "Un utilisateur avec cet email existe déjà",
		Category: "validation",
		Action:   "Utilisez une autre adresse email ou connectez-vous.",
	}
}

// NewItemNotFoundError はアイテム未検出エラーを生成する。
// 所有権違反もこのエラーに集約し、他ユーザーのアイテムの存在を漏らさない。
func NewItemNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeItemNotFound,
		Message:  "Article non trouvé",
		Category: "item",
		Action:   "Rechargez la liste et réessayez.",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  message,
		Category: "validation",
		Action:   "Corrigez la requête et réessayez.",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Erreur serveur",
		Category: "system",
		Action:   "Veuillez réessayer plus tard.",
	}
}
