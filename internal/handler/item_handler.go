package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/panier/internal/item"
	"github.com/hitoshi/panier/internal/middleware"
	"github.com/hitoshi/panier/internal/model"
)

// ItemServiceInterface はアイテムハンドラーが必要とするサービスインターフェース。
type ItemServiceInterface interface {
	// List は呼び出しユーザーの全アイテムをcreated_at降順で返す。
	List(ctx context.Context, userID string) ([]*model.ShoppingItem, error)
	// Create は新規アイテムを作成する。
	Create(ctx context.Context, userID string, input item.CreateInput) (*model.ShoppingItem, error)
	// Update はアイテムを部分更新する。
	Update(ctx context.Context, userID, itemID string, update model.ItemUpdate) (*model.ShoppingItem, error)
	// Delete はアイテムを削除する。
	Delete(ctx context.Context, userID, itemID string) error
}

// ItemHandler は買い物アイテムのHTTPハンドラー。
type ItemHandler struct {
	service ItemServiceInterface
}

// NewItemHandler はItemHandlerを生成する。
func NewItemHandler(service ItemServiceInterface) *ItemHandler {
	return &ItemHandler{
		service: service,
	}
}

// --- 柔軟なJSONデコード型 ---
// フロントエンドのフォームは数値を文字列で送ることがあるため、
// 数値と数値文字列の両方を受け付ける。解析できない値はnil扱いとし、
// 作成時は既定値への、更新時は既存値の維持へのフォールバックとなる。

// flexInt は数値または数値文字列を受け付ける整数型。
type flexInt struct {
	set   bool
	value *int
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	f.set = true
	f.value = nil

	if string(data) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		f.value = &n
		return nil
	}

	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		n = int(fl)
		f.value = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if parsed, err := strconv.Atoi(s); err == nil {
			f.value = &parsed
			return nil
		}
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			n = int(parsed)
			f.value = &n
			return nil
		}
	}

	// 解析不能な値はnilのまま（エラーにしない）
	return nil
}

// flexFloat は数値または数値文字列を受け付ける浮動小数点型。
type flexFloat struct {
	set   bool
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	f.set = true
	f.value = nil

	if string(data) == "null" {
		return nil
	}

	var fl float64
	if err := json.Unmarshal(data, &fl); err == nil {
		f.value = &fl
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			f.value = &parsed
			return nil
		}
	}

	return nil
}

// priceValue は価格として保存する値を返す。
// 空・解析不能・0はいずれもnull（価格未設定）として扱う。
func (f flexFloat) priceValue() *float64 {
	if f.value == nil || *f.value == 0 {
		return nil
	}
	return f.value
}

// --- リクエスト・レスポンス型 ---

// createItemRequest はアイテム作成リクエストのボディ。
type createItemRequest struct {
	Product       string    `json:"product"`
	Quantity      flexInt   `json:"quantity"`
	CurrentPrice  flexFloat `json:"currentPrice"`
	PreviousPrice flexFloat `json:"previousPrice"`
}

// updateItemRequest はアイテム更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateItemRequest struct {
	Product       *string   `json:"product"`
	Quantity      flexInt   `json:"quantity"`
	CurrentPrice  flexFloat `json:"currentPrice"`
	PreviousPrice flexFloat `json:"previousPrice"`
	Purchased     *bool     `json:"purchased"`
}

// itemResponse はアイテムのレスポンス。
type itemResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Product       string     `json:"product"`
	Quantity      int        `json:"quantity"`
	CurrentPrice  *float64   `json:"currentPrice"`
	PreviousPrice *float64   `json:"previousPrice"`
	Purchased     bool       `json:"purchased"`
	PurchaseDate  *time.Time `json:"purchaseDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toItemResponse(it *model.ShoppingItem) itemResponse {
	return itemResponse{
		ID:            it.ID,
		UserID:        it.UserID,
		Product:       it.Product,
		Quantity:      it.Quantity,
		CurrentPrice:  it.CurrentPrice,
		PreviousPrice: it.PreviousPrice,
		Purchased:     it.Purchased,
		PurchaseDate:  it.PurchaseDate,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

// ListItems はユーザーのアイテム一覧を取得する。
// GET /api/shopping-items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]itemResponse, len(items))
	for i, it := range items {
		responses[i] = toItemResponse(it)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// CreateItem は新規アイテムを作成する。
// POST /api/shopping-items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Requête invalide"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, item.CreateInput{
		Product:       req.Product,
		Quantity:      req.Quantity.value,
		CurrentPrice:  req.CurrentPrice.priceValue(),
		PreviousPrice: req.PreviousPrice.priceValue(),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toItemResponse(created))
}

// UpdateItem はアイテムを部分更新する。
// PUT /api/shopping-items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	itemID := chi.URLParam(r, "id")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Requête invalide"))
		return
	}

	update := model.ItemUpdate{
		Product:   req.Product,
		Quantity:  req.Quantity.value,
		Purchased: req.Purchased,
	}
	if req.CurrentPrice.set {
		update.CurrentPriceSet = true
		update.CurrentPrice = req.CurrentPrice.priceValue()
	}
	if req.PreviousPrice.set {
		update.PreviousPriceSet = true
		update.PreviousPrice = req.PreviousPrice.priceValue()
	}

	updated, err := h.service.Update(r.Context(), userID, itemID, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toItemResponse(updated))
}

// DeleteItem はアイテムを削除する。
// DELETE /api/shopping-items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	itemID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, itemID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Article supprimé avec succès",
	})
}

// --- エラーレスポンスヘルパー ---

// apiErrorResponse はAPIエラーレスポンスのJSON表現。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeEmailTaken, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeItemNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
