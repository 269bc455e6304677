package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/gommon/log"
)

const (
	MenuAvailableKey  = "menu:available"
	MenuGenerationKey = "menu:gen"
	MenuTTL           = 5 * time.Minute
)

var errStaleGeneration = errors.New("menu cache generation changed")

func MenuKey(id int64) string {
	return fmt.Sprintf("menu:%d", id)
}

// 販売中メニューの読み取りをRedisに載せる。
// 書き込みはDBへ流してから世代を進めてキーを消す。Redisの失敗はDBにフォールバック。
// DB読み取り中に世代が進んだ値は書き戻さない（無効化済みの行を復活させない）。
type CachedMenuRepository struct {
	next   repo.MenuRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedMenuRepository(next repo.MenuRepository, rdb *redis.Client, logger *log.Logger) *CachedMenuRepository {
	return &CachedMenuRepository{next: next, rdb: rdb, ttl: MenuTTL, logger: logger}
}

func (c *CachedMenuRepository) ListAvailable(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	if c.get(ctx, MenuAvailableKey, &menus) {
		return menus, nil
	}

	gen, ok := c.generation(ctx)
	menus, err := c.next.ListAvailable(ctx)
	if err != nil {
		return menus, err
	}
	if ok {
		c.set(ctx, MenuAvailableKey, menus, gen)
	}
	return menus, nil
}

// 見つからない結果はキャッシュしない
func (c *CachedMenuRepository) FindAvailableByID(ctx context.Context, id int64) (model.Menu, error) {
	var m model.Menu
	if c.get(ctx, MenuKey(id), &m) {
		return m, nil
	}

	gen, ok := c.generation(ctx)
	m, err := c.next.FindAvailableByID(ctx, id)
	if err != nil {
		return m, err
	}
	if ok {
		c.set(ctx, MenuKey(id), m, gen)
	}
	return m, nil
}

func (c *CachedMenuRepository) FindByID(ctx context.Context, id int64) (model.Menu, error) {
	return c.next.FindByID(ctx, id)
}

func (c *CachedMenuRepository) Create(ctx context.Context, m model.Menu) (model.Menu, error) {
	created, err := c.next.Create(ctx, m)
	if err != nil {
		return created, err
	}
	c.invalidate(ctx, created.ID)
	return created, nil
}

func (c *CachedMenuRepository) UpdateAvailability(ctx context.Context, id int64, isAvailable bool) error {
	if err := c.next.UpdateAvailability(ctx, id, isAvailable); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedMenuRepository) SoftDelete(ctx context.Context, id int64) error {
	if err := c.next.SoftDelete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedMenuRepository) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warnf("redis get %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warnf("decode cached %s: %v", key, err)
		return false
	}
	return true
}

func (c *CachedMenuRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := c.rdb.Get(ctx, MenuGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warnf("redis get %s: %v", MenuGenerationKey, err)
		return 0, false
	}
	return gen, true
}

// 世代がgenのままのときだけ書く。WATCH中に無効化が走るとEXECが失敗する
func (c *CachedMenuRepository) set(ctx context.Context, key string, v any, gen int64) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, MenuGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, MenuGenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debugf("skip cache %s: menu changed during read", key)
	default:
		c.logger.Warnf("redis set %s: %v", key, err)
	}
}

func (c *CachedMenuRepository) invalidate(ctx context.Context, id int64) {
	if err := c.rdb.Incr(ctx, MenuGenerationKey).Err(); err != nil {
		c.logger.Warnf("redis incr %s: %v", MenuGenerationKey, err)
	}
	if err := c.rdb.Del(ctx, MenuAvailableKey, MenuKey(id)).Err(); err != nil {
		c.logger.Warnf("redis del menu %d: %v", id, err)
	}
}
