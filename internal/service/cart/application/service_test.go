package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"cartview/internal/pkg/blockpool"
	"cartview/internal/service/cart/domain"
)

type fakeCartFetcher struct {
	cart *domain.Cart
	err  error
}

func (f *fakeCartFetcher) FetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cart, nil
}

type fakePaymentFetcher struct {
	payment *domain.Payment
	err     error
}

func (f *fakePaymentFetcher) FetchPayment(ctx context.Context, userID string) (*domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payment, nil
}

type fakeProductFetcher struct {
	products map[string]*domain.Product
}

func (f *fakeProductFetcher) FetchProduct(ctx context.Context, productID string) (*domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type fakeStockFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	records map[string]*domain.StockOffers
}

func (f *fakeStockFetcher) FetchStockOffers(ctx context.Context, productID string) (*domain.StockOffers, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[productID]++
	f.mu.Unlock()

	rec, ok := f.records[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

type fakeOfferRepo struct {
	mu      sync.Mutex
	batches [][]string
	offers  map[string]domain.Offer
	err     error
}

func (f *fakeOfferRepo) FindByIDs(ctx context.Context, offerIDs []string) ([]domain.Offer, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), offerIDs...))
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Offer
	for _, id := range offerIDs {
		if o, ok := f.offers[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeAggregateStore struct {
	mu    sync.Mutex
	saved []*domain.CartDetails
	err   error
}

func (f *fakeAggregateStore) Save(ctx context.Context, details *domain.CartDetails) (*domain.CartDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.saved = append(f.saved, details)
	f.mu.Unlock()
	return details, nil
}

func (f *fakeAggregateStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeEventProducer struct {
	mu        sync.Mutex
	published int
	err       error
}

func (f *fakeEventProducer) AggregateStored(ctx context.Context, details *domain.CartDetails) error {
	f.mu.Lock()
	f.published++
	f.mu.Unlock()
	return f.err
}

type testEnv struct {
	carts    *fakeCartFetcher
	payments *fakePaymentFetcher
	catalog  *fakeProductFetcher
	stock    *fakeStockFetcher
	offers   *fakeOfferRepo
	store    *fakeAggregateStore
	events   *fakeEventProducer
}

func (e *testEnv) service() *CartService {
	return NewCartService(
		e.carts, e.payments, e.catalog, e.stock, e.offers, e.store, e.events,
		blockpool.New(4), otel.Tracer("test"),
	)
}

func product(id string) *domain.Product {
	return &domain.Product{ProductID: id, Name: "product " + id}
}

// newTestEnv 构造 spec 场景：u1 的购物车是 [p1, p2]，
// p1 价格 100 挂 FLAT 20 的 o1，p2 价格 50 挂 FLAT 60 的 o2。
func newTestEnv() *testEnv {
	return &testEnv{
		carts: &fakeCartFetcher{cart: &domain.Cart{
			UserID: "u1",
			Products: []domain.CartedProduct{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p2", Quantity: 2},
			},
		}},
		payments: &fakePaymentFetcher{payment: &domain.Payment{
			UserID: "u1",
			PaymentInfo: domain.PaymentInfo{
				DebitCards: []domain.CardInfo{{BankName: "HDFC", Provider: "VISA"}},
			},
		}},
		catalog: &fakeProductFetcher{products: map[string]*domain.Product{
			"p1": product("p1"),
			"p2": product("p2"),
		}},
		stock: &fakeStockFetcher{records: map[string]*domain.StockOffers{
			"p1": {ProductID: "p1", Price: 100, Stock: 5, OfferIDs: []string{"o1"}},
			"p2": {ProductID: "p2", Price: 50, Stock: 3, OfferIDs: []string{"o2"}},
		}},
		offers: &fakeOfferRepo{offers: map[string]domain.Offer{
			"o1": flatOffer("o1", "HDFC", "VISA", 20),
			"o2": flatOffer("o2", "ICICI", "MASTERCARD", 60),
		}},
		store:  &fakeAggregateStore{},
		events: &fakeEventProducer{},
	}
}

func TestGetCartDetailsSpecScenario(t *testing.T) {
	env := newTestEnv()

	details, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, details)

	assert.Equal(t, "u1", details.UserID)
	require.Len(t, details.ProductDetails, 2)
	assert.Equal(t, "p1", details.ProductDetails[0].ProductID)
	assert.Equal(t, "p2", details.ProductDetails[1].ProductID)

	// p1: 100 - 20 = 80
	p1Best := details.ProductDetails[0].BestOffers
	require.Len(t, p1Best, 1)
	require.NotNil(t, p1Best[0].FinalOfferPrice)
	assert.Equal(t, 80.0, *p1Best[0].FinalOfferPrice)

	// p2: 折扣 60 超过价格 50，不适用
	p2Best := details.ProductDetails[1].BestOffers
	require.Len(t, p2Best, 1)
	assert.Nil(t, p2Best[0].FinalOfferPrice)
	assert.NotEmpty(t, p2Best[0].OfferText)

	// 用户的 HDFC/VISA 借记卡只在 p1 上有匹配
	require.Len(t, details.ProductDetails[0].UserCardOffers, 1)
	assert.Equal(t, "o1", details.ProductDetails[0].UserCardOffers[0].OfferID)
	assert.Empty(t, details.ProductDetails[1].UserCardOffers)

	assert.Equal(t, 1, env.store.count())
	assert.Equal(t, 1, env.events.published)
}

func TestProductOrderFollowsCartAndDuplicatesCollapse(t *testing.T) {
	env := newTestEnv()
	env.carts.cart.Products = []domain.CartedProduct{
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 4}, // 重复条目只聚合一次
	}

	details, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, details.ProductDetails, 2)
	assert.Equal(t, "p2", details.ProductDetails[0].ProductID)
	assert.Equal(t, "p1", details.ProductDetails[1].ProductID)
}

// 多路复用属性：库存报价被价格与优惠 ID 两个消费方读取，
// 底层取数仍然每个商品恰好一次。
func TestStockFetchedOncePerDistinctProduct(t *testing.T) {
	env := newTestEnv()

	_, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)

	env.stock.mu.Lock()
	defer env.stock.mu.Unlock()
	assert.Len(t, env.stock.calls, 2)
	for pid, n := range env.stock.calls {
		assert.Equal(t, 1, n, "stock fetch for %s issued %d times", pid, n)
	}
}

func TestOfferLookupChunkedAt500(t *testing.T) {
	env := newTestEnv()

	// 单个商品挂 1200 个不同的优惠 ID
	ids := make([]string, 1200)
	offers := make(map[string]domain.Offer, 1200)
	for i := range ids {
		id := fmt.Sprintf("of-%04d", i)
		ids[i] = id
		offers[id] = flatOffer(id, "HDFC", "VISA", 1)
	}
	env.carts.cart.Products = []domain.CartedProduct{{ProductID: "p1", Quantity: 1}}
	env.stock.records = map[string]*domain.StockOffers{
		"p1": {ProductID: "p1", Price: 1000, OfferIDs: ids},
	}
	env.offers.offers = offers

	details, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)

	env.offers.mu.Lock()
	batches := env.offers.batches
	env.offers.mu.Unlock()

	require.Len(t, batches, 3)
	seen := make(map[string]int)
	for _, batch := range batches {
		assert.LessOrEqual(t, len(batch), 500)
		for _, id := range batch {
			seen[id]++
		}
	}
	// 并集完整且无重复
	require.Len(t, seen, 1200)
	for id, n := range seen {
		assert.Equal(t, 1, n, "offer id %s appeared in %d batches", id, n)
	}
	assert.Len(t, details.ProductDetails[0].BestOffers, 1200)
}

func TestSharedOfferAcrossProductsResolvedOnce(t *testing.T) {
	env := newTestEnv()
	env.stock.records["p1"].OfferIDs = []string{"o1", "o2"}
	env.stock.records["p2"].OfferIDs = []string{"o2", "o1"}

	details, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)

	env.offers.mu.Lock()
	batches := env.offers.batches
	env.offers.mu.Unlock()

	require.Len(t, batches, 1)
	assert.ElementsMatch(t, []string{"o1", "o2"}, batches[0])
	assert.Len(t, details.ProductDetails[0].BestOffers, 2)
	assert.Len(t, details.ProductDetails[1].BestOffers, 2)
}

func TestPaymentFailureAbortsWithoutPersisting(t *testing.T) {
	env := newTestEnv()
	env.payments.err = errors.Wrap(domain.ErrUpstream, "payment store unreachable")

	_, err := env.service().GetCartDetails(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Zero(t, env.store.count(), "no document may be written for a failed request")
	assert.Zero(t, env.events.published)
}

func TestMissingStockRecordFailsRequest(t *testing.T) {
	env := newTestEnv()
	// 上游返回了一条商品 ID 不匹配的记录：绝不能按 0 价计算折扣
	env.stock.records["p2"] = &domain.StockOffers{ProductID: "px", Price: 10}

	_, err := env.service().GetCartDetails(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, env.store.count())
}

func TestUnresolvedOfferIsDroppedNotFatal(t *testing.T) {
	env := newTestEnv()
	env.stock.records["p1"].OfferIDs = []string{"o1", "ghost"}

	details, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)

	// ghost 未解析：记录缺陷并丢弃该条优惠，不拖垮整个请求
	best := details.ProductDetails[0].BestOffers
	require.Len(t, best, 1)
	assert.Equal(t, "o1", best[0].OfferID)
}

func TestRepeatedRunsProduceEqualAggregates(t *testing.T) {
	env := newTestEnv()
	svc := env.service()

	first, err := svc.GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)
	second, err := svc.GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, env.store.count(), "each run overwrites the stored document")
}

func TestEventPublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv()
	env.events.err = errors.New("broker down")

	details, err := env.service().GetCartDetails(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, details)
	assert.Equal(t, 1, env.store.count())
}

func TestChunkStrings(t *testing.T) {
	ids := make([]string, 1200)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}

	chunks := chunkStrings(ids, 500)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[1], 500)
	assert.Len(t, chunks[2], 200)

	exact := chunkStrings(ids[:500], 500)
	require.Len(t, exact, 1)
	assert.Len(t, exact[0], 500)
}
