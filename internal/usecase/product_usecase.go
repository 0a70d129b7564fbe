package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 商品削除の通知先。配送の成否はDeleteの結果に影響させない
type ProductDeletedNotifier interface {
	NotifyProductDeleted(productID int64)
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	notifier    ProductDeletedNotifier
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, notifier ProductDeletedNotifier) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		notifier:    notifier,
	}
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
}

type ProductOutput struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func validateProductInput(in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(name) > 100 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return NewHTTPError(http.StatusBadRequest, "description required")
	}
	if len(desc) > 100 {
		return NewHTTPError(http.StatusBadRequest, "description too long")
	}
	if !in.Price.IsPositive() {
		return NewHTTPError(http.StatusBadRequest, "price must be greater than zero")
	}
	return nil
}

// 公開・非公開を問わず全商品
func (u *ProductUsecase) ListAll(ctx context.Context) ([]ProductOutput, error) {
	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toProductOutput(p))
	}
	return outs, nil
}

// 公開中の商品だけ。ストアフロント向けの読み取り
func (u *ProductUsecase) ListActive(ctx context.Context) ([]ProductOutput, error) {
	products, err := u.productRepo.ListActive(ctx)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toProductOutput(p))
	}
	return outs, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//非公開商品もIDを知っていれば参照できる（一覧で隠すだけ）
	return toProductOutput(p), nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (int64, error) {
	if err := validateProductInput(in); err != nil {
		return 0, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p.ID, nil
}

// 全フィールド置き換え。部分更新はしない
func (u *ProductUsecase) Update(ctx context.Context, productID int64, in ProductInput) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		IsActive:    in.IsActive,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 論理削除。行が残る限り2回目以降も成功する
func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.Deactivate(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//コミット後に投げっぱなしで通知する。配送の成否はここに返ってこない
	if u.notifier != nil {
		log.Infof("product %d deactivated, broadcasting", productID)
		u.notifier.NotifyProductDeleted(productID)
	}
	return nil
}
