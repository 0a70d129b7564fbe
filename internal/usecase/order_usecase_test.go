package usecase_test

import (
	"context"
	"testing"
	"time"

	"bakery/internal/domain/model"
	repo "bakery/internal/repository"
	"bakery/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderLines repo.OrderLineRepository
	products   repo.ProductRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderLines() repo.OrderLineRepository { return r.orderLines }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type OrderLineRepoMock struct{ mock.Mock }

func (m *OrderLineRepoMock) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *OrderLineRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

func (m *OrderLineRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func newOrderUsecase(orders *OrderRepoMock, lines *OrderLineRepoMock, products *ProductRepoMock) *usecase.OrderUsecase {
	tx := &TxManagerMock{Repos: &TxReposMock{
		orders:     orders,
		orderLines: lines,
		products:   products,
	}}
	return usecase.NewOrderUsecase(tx)
}

// =====================
// Create
// =====================

func TestOrderUsecase_Create_CustomerRequired(t *testing.T) {
	uc := newOrderUsecase(new(OrderRepoMock), new(OrderLineRepoMock), new(ProductRepoMock))

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		OrderDate: time.Now(), Status: "Pending",
	})
	assertHTTPStatus(t, err, 400)
}

func TestOrderUsecase_Create_OrderDateRequired(t *testing.T) {
	uc := newOrderUsecase(new(OrderRepoMock), new(OrderLineRepoMock), new(ProductRepoMock))

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1, Status: "Pending",
	})
	assertHTTPStatus(t, err, 400)
}

func TestOrderUsecase_Create_InvalidStatus(t *testing.T) {
	uc := newOrderUsecase(new(OrderRepoMock), new(OrderLineRepoMock), new(ProductRepoMock))

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1, OrderDate: time.Now(), Status: "not-a-status",
	})
	assertHTTPStatus(t, err, 400)
}

func TestOrderUsecase_Create_QuantityMustBePositive(t *testing.T) {
	uc := newOrderUsecase(new(OrderRepoMock), new(OrderLineRepoMock), new(ProductRepoMock))

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1, OrderDate: time.Now(), Status: "Pending",
		Lines: []usecase.OrderLineInput{{ProductID: 1, Quantity: 0}},
	})
	assertHTTPStatus(t, err, 400)
}

func TestOrderUsecase_Create_ProductNotFound(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, pRepo)

	pRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1, OrderDate: time.Now(), Status: "Pending",
		Lines: []usecase.OrderLineInput{{ProductID: 42, Quantity: 1}},
	})
	assertHTTPStatus(t, err, 400)

	oRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_EmptyLinesSucceeds(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, new(ProductRepoMock))

	oRepo.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	lRepo.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(nil)

	id, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1, OrderDate: time.Now(), Status: "Pending",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestOrderUsecase_Create_WithLines(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, pRepo)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Chocolate Cake"}, nil)
	pRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Product{ID: 2, Name: "Croissant"}, nil)

	oRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 1 && o.Status == model.OrderStatusPending
	})).Return(int64(10), nil)

	lRepo.On("CreateBulk", mock.Anything, int64(10), mock.MatchedBy(func(lines []model.OrderLine) bool {
		return len(lines) == 2 && lines[0].Quantity == 2 && lines[1].Quantity == 3
	})).Return(nil)

	//ステータスは小文字でも通る
	id, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerID: 1, OrderDate: time.Now(), Status: "pending",
		Lines: []usecase.OrderLineInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), id)

	oRepo.AssertExpectations(t)
	lRepo.AssertExpectations(t)
}

// =====================
// Get / List（商品名の読み出し時解決）
// =====================

func TestOrderUsecase_Get_NotFound(t *testing.T) {
	oRepo := new(OrderRepoMock)
	uc := newOrderUsecase(oRepo, new(OrderLineRepoMock), new(ProductRepoMock))

	oRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.Get(context.Background(), 99)
	assertHTTPStatus(t, err, 404)
}

func TestOrderUsecase_Get_ResolvesProductNames(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, pRepo)

	orderDate := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	oRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID: 1, CustomerID: 7, OrderDate: orderDate, Status: model.OrderStatusPending,
	}, nil)
	lRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderLine{
		{ID: 11, OrderID: 1, ProductID: 1, Quantity: 2},
		{ID: 12, OrderID: 1, ProductID: 2, Quantity: 3},
	}, nil)
	pRepo.On("ListByIDs", mock.Anything, []int64{1, 2}).Return([]model.Product{
		{ID: 1, Name: "Chocolate Cake"},
		{ID: 2, Name: "Croissant"},
	}, nil)

	out, err := uc.Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.CustomerID)
	assert.Equal(t, "Pending", out.Status)
	assert.Len(t, out.Lines, 2)
	assert.Equal(t, "Chocolate Cake", out.Lines[0].ProductName)
	assert.Equal(t, int64(2), out.Lines[0].Quantity)
	assert.Equal(t, "Croissant", out.Lines[1].ProductName)
	assert.Equal(t, int64(3), out.Lines[1].Quantity)
}

func TestOrderUsecase_Get_EmptyLines(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, pRepo)

	oRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Order{
		ID: 2, CustomerID: 1, OrderDate: time.Now(), Status: model.OrderStatusCompleted,
	}, nil)
	lRepo.On("ListByOrderID", mock.Anything, int64(2)).Return([]model.OrderLine{}, nil)
	pRepo.On("ListByIDs", mock.Anything, []int64{}).Return([]model.Product{}, nil)

	out, err := uc.Get(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, out.Lines, 0)
}

func TestOrderUsecase_List(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	pRepo := new(ProductRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, pRepo)

	oRepo.On("ListAll", mock.Anything).Return([]model.Order{
		{ID: 1, CustomerID: 1, Status: model.OrderStatusPending},
		{ID: 2, CustomerID: 2, Status: model.OrderStatusCompleted},
	}, nil)
	lRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderLine{
		{ID: 11, OrderID: 1, ProductID: 3, Quantity: 1},
	}, nil)
	lRepo.On("ListByOrderID", mock.Anything, int64(2)).Return([]model.OrderLine{}, nil)
	pRepo.On("ListByIDs", mock.Anything, []int64{3}).Return([]model.Product{
		{ID: 3, Name: "Apple Pie"},
	}, nil)
	pRepo.On("ListByIDs", mock.Anything, []int64{}).Return([]model.Product{}, nil)

	out, err := uc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "Apple Pie", out[0].Lines[0].ProductName)
}

// =====================
// UpdateStatus
// =====================

func TestOrderUsecase_UpdateStatus_CaseInsensitive(t *testing.T) {
	oRepo := new(OrderRepoMock)
	uc := newOrderUsecase(oRepo, new(OrderLineRepoMock), new(ProductRepoMock))

	oRepo.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusCompleted).Return(nil)

	err := uc.UpdateStatus(context.Background(), 1, "completed")
	assert.NoError(t, err)

	oRepo.AssertExpectations(t)
}

func TestOrderUsecase_UpdateStatus_InvalidStatusLeavesOrderUntouched(t *testing.T) {
	oRepo := new(OrderRepoMock)
	uc := newOrderUsecase(oRepo, new(OrderLineRepoMock), new(ProductRepoMock))

	err := uc.UpdateStatus(context.Background(), 1, "not-a-status")
	assertHTTPStatus(t, err, 400)

	oRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	oRepo := new(OrderRepoMock)
	uc := newOrderUsecase(oRepo, new(OrderLineRepoMock), new(ProductRepoMock))

	oRepo.On("UpdateStatus", mock.Anything, int64(99), model.OrderStatusCancelled).Return(repo.ErrNotFound)

	err := uc.UpdateStatus(context.Background(), 99, "Cancelled")
	assertHTTPStatus(t, err, 404)
}

// =====================
// Delete（物理削除）
// =====================

func TestOrderUsecase_Delete_NotFound(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, new(ProductRepoMock))

	lRepo.On("DeleteByOrderID", mock.Anything, int64(99)).Return(nil)
	oRepo.On("Delete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), 99)
	assertHTTPStatus(t, err, 404)
}

func TestOrderUsecase_Delete_RemovesLinesAndOrder(t *testing.T) {
	oRepo := new(OrderRepoMock)
	lRepo := new(OrderLineRepoMock)
	uc := newOrderUsecase(oRepo, lRepo, new(ProductRepoMock))

	lRepo.On("DeleteByOrderID", mock.Anything, int64(1)).Return(nil)
	oRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

	err := uc.Delete(context.Background(), 1)
	assert.NoError(t, err)

	lRepo.AssertExpectations(t)
	oRepo.AssertExpectations(t)
}
