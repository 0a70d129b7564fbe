package usecase

import (
	"context"
	"net/http"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

type CreateOrderInput struct {
	CustomerID int64
	OrderDate  time.Time
	Status     string
	Lines      []OrderLineInput
}

type OrderLineOutput struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	CustomerID int64             `json:"customer_id"`
	OrderDate  time.Time         `json:"order_date"`
	Status     string            `json:"status"`
	Lines      []OrderLineOutput `json:"lines"`
}

// 商品名は保存せず読み出しのたびに現在の名前を引き直す
func toOrderOutput(o model.Order, lines []model.OrderLine, productNames map[int64]string) OrderOutput {
	outLines := make([]OrderLineOutput, 0, len(lines))
	for _, l := range lines {
		outLines = append(outLines, OrderLineOutput{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: productNames[l.ProductID],
			Quantity:    l.Quantity,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		OrderDate:  o.OrderDate,
		Status:     string(o.Status),
		Lines:      outLines,
	}
}

func resolveProductNames(ctx context.Context, products repo.ProductRepository, lines []model.OrderLine) (map[int64]string, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}

	ps, err := products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(ps))
	for _, p := range ps {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (u *OrderUsecase) List(ctx context.Context) ([]OrderOutput, error) {
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAll(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			names, err := resolveProductNames(ctx, r.Products(), lines)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, lines, names))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		names, err := resolveProductNames(ctx, r.Products(), lines)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines, names)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 注文と明細を1トランザクションで作る。明細ゼロの注文も許す
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (int64, error) {
	if in.CustomerID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "customer id required")
	}
	if in.OrderDate.IsZero() {
		return 0, NewHTTPError(http.StatusBadRequest, "order date required")
	}
	status, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return 0, NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		if l.Quantity <= 0 {
			return 0, NewHTTPError(http.StatusBadRequest, "quantity must be greater than zero")
		}
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//参照先の商品が存在することを同じTxの中で確かめる
		for _, l := range in.Lines {
			if _, err := r.Products().FindByID(ctx, l.ProductID); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusBadRequest, "product not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		id, err := r.Orders().Create(ctx, model.Order{
			CustomerID: in.CustomerID,
			OrderDate:  in.OrderDate,
			Status:     status,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines := make([]model.OrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			lines = append(lines, model.OrderLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
			})
		}
		if err := r.OrderLines().CreateBulk(ctx, id, lines); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderID = id
		return nil
	})

	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// 遷移グラフは課さない。どのステータスからどのステータスへも移れる
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, statusStr string) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	status, ok := model.ParseOrderStatus(statusStr)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Orders().UpdateStatus(ctx, orderID, status)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 物理削除。明細も同じTxで消す
func (u *OrderUsecase) Delete(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderLines().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		err := r.Orders().Delete(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
