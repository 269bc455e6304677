package cache

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/config"
	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"
	"github.com/Syarif-H55/smart-cashier/internal/repository/repotest"
	"github.com/Syarif-H55/smart-cashier/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func quiet() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	rdb, err := NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	_ = rdb.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

func TestCachedMenuRepository_ReadThroughAndInvalidate(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := repotest.NewStore()
	m := store.AddMenu(model.Menu{Name: "Kopi Susu", Category: model.MenuCategoryBeverage, Price: decimal.NewFromInt(18000), IsAvailable: true})

	c := NewCachedMenuRepository(store.Menus(), rdb, quiet())
	ctx := context.Background()

	got, err := c.FindAvailableByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Susu", got.Name)
	assert.True(t, mr.Exists(MenuKey(m.ID)))
	assert.Equal(t, MenuTTL, mr.TTL(MenuKey(m.ID)))

	list, err := c.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(MenuAvailableKey))

	//キャッシュから返ることを確認（DB側の値を書き換えてもキャッシュが優先）
	raw, _ := json.Marshal(model.Menu{ID: m.ID, Name: "cached", Price: decimal.NewFromInt(1), IsAvailable: true})
	require.NoError(t, mr.Set(MenuKey(m.ID), string(raw)))
	got, err = c.FindAvailableByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Name)

	//更新でキーが消える
	require.NoError(t, c.UpdateAvailability(ctx, m.ID, false))
	assert.False(t, mr.Exists(MenuKey(m.ID)))
	assert.False(t, mr.Exists(MenuAvailableKey))

	_, err = c.FindAvailableByID(ctx, m.ID)
	assert.Error(t, err)
	assert.False(t, mr.Exists(MenuKey(m.ID)), "misses are not cached")
}

// DB読み取り直後に販売停止が割り込むリポジトリ
type interleavedMenuRepo struct {
	repo.MenuRepository
	cache *CachedMenuRepository
	fired bool
}

func (r *interleavedMenuRepo) FindAvailableByID(ctx context.Context, id int64) (model.Menu, error) {
	m, err := r.MenuRepository.FindAvailableByID(ctx, id)
	if err == nil && !r.fired {
		r.fired = true
		if err := r.cache.UpdateAvailability(ctx, id, false); err != nil {
			return m, err
		}
	}
	return m, err
}

func TestCachedMenuRepository_DoesNotRestoreRowInvalidatedDuringRead(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := repotest.NewStore()
	m := store.AddMenu(model.Menu{Name: "Kopi", Category: model.MenuCategoryBeverage, Price: decimal.NewFromInt(12000), IsAvailable: true})

	inner := &interleavedMenuRepo{MenuRepository: store.Menus()}
	c := NewCachedMenuRepository(inner, rdb, quiet())
	inner.cache = c
	ctx := context.Background()

	//割り込み前に読んだ行はそのまま返るが、キャッシュには載らない
	got, err := c.FindAvailableByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi", got.Name)
	assert.False(t, mr.Exists(MenuKey(m.ID)))

	_, err = c.FindAvailableByID(ctx, m.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCachedMenuRepository_ListNotRestoredAfterConcurrentChange(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := repotest.NewStore()
	store.AddMenu(model.Menu{Name: "Soto", Category: model.MenuCategoryFood, Price: decimal.NewFromInt(22000), IsAvailable: true})
	c := NewCachedMenuRepository(store.Menus(), rdb, quiet())
	ctx := context.Background()

	gen, ok := c.generation(ctx)
	require.True(t, ok)
	list, err := c.ListAvailable(ctx)
	require.NoError(t, err)
	mr.Del(MenuAvailableKey)

	//読み取り後に世代が進んだら古い一覧は書かない
	_, err = rdb.Incr(ctx, MenuGenerationKey).Result()
	require.NoError(t, err)
	c.set(ctx, MenuAvailableKey, list, gen)
	assert.False(t, mr.Exists(MenuAvailableKey))

	gen, ok = c.generation(ctx)
	require.True(t, ok)
	c.set(ctx, MenuAvailableKey, list, gen)
	assert.True(t, mr.Exists(MenuAvailableKey))
}

func TestCachedMenuRepository_CreateAndDeleteInvalidate(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := repotest.NewStore()
	c := NewCachedMenuRepository(store.Menus(), rdb, quiet())
	ctx := context.Background()

	_, err := c.ListAvailable(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(MenuAvailableKey))

	created, err := c.Create(ctx, model.Menu{Name: "Soto", Category: model.MenuCategoryFood, Price: decimal.NewFromInt(22000), IsAvailable: true})
	require.NoError(t, err)
	assert.False(t, mr.Exists(MenuAvailableKey))

	list, err := c.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.SoftDelete(ctx, created.ID))
	assert.False(t, mr.Exists(MenuAvailableKey))
}

func TestCachedMenuRepository_FallsBackWhenRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := repotest.NewStore()
	m := store.AddMenu(model.Menu{Name: "Es Teh", Category: model.MenuCategoryBeverage, Price: decimal.NewFromInt(5000), IsAvailable: true})
	c := NewCachedMenuRepository(store.Menus(), rdb, quiet())

	mr.Close()

	got, err := c.FindAvailableByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Es Teh", got.Name)

	require.NoError(t, c.UpdateAvailability(context.Background(), m.ID, false))
}

func TestRedisEventPublisher(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, EventChannel(usecase.EventTransactionCreated), EventChannelAll)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewRedisEventPublisher(rdb)
	ev := usecase.TransactionCreatedEvent{
		TransactionID:   9,
		TransactionCode: "TRX-20260314-00042",
		UserID:          1,
		TotalAmount:     decimal.NewFromInt(55000),
		PaymentMethod:   "cash",
		ItemCount:       2,
		CreatedAt:       time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishTransactionCreated(ctx, ev))

	channels := map[string]bool{}
	for i := 0; i < 2; i++ {
		msg, err := sub.ReceiveMessage(ctx)
		require.NoError(t, err)
		channels[msg.Channel] = true

		var got struct {
			EventType string                          `json:"event_type"`
			Data      usecase.TransactionCreatedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "transaction.created", got.EventType)
		assert.Equal(t, "TRX-20260314-00042", got.Data.TransactionCode)
		assert.True(t, got.Data.TotalAmount.Equal(decimal.NewFromInt(55000)))
	}
	assert.True(t, channels["pos:events:transaction.created"])
	assert.True(t, channels["pos:events:all"])
}
