// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ProductSanitizerService はユーザー入力の商品名をサニタイズし、
// 保存データ経由のXSSからUIを保護する。
// bluemondayのStrictPolicyで全HTMLタグを除去し、テキストのみを残す。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ProductSanitizerService は商品名サニタイズ機能のインターフェースを定義する。
// アイテムの作成・更新時、保存前に使用される。
type ProductSanitizerService interface {
	// Sanitize は商品名から全HTMLタグを除去し、前後の空白を削除して返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// productSanitizer はProductSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type productSanitizer struct {
	policy *bluemonday.Policy
}

// NewProductSanitizer はProductSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、scriptタグやon*イベント属性を
// 含むあらゆるHTMLが除去される。
func NewProductSanitizer() *productSanitizer {
	return &productSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は商品名から全HTMLタグを除去して返す。
func (s *productSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
