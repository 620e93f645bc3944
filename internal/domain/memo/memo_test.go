package memo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	memo "github.com/pepmove/fleetboard/internal/domain/memo"
	table "github.com/pepmove/fleetboard/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryCache_GetOrCompute(t *testing.T) {
	Convey("Given a new in-memory cache", t, func() {
		ctx := context.Background()
		cache := memo.NewInMemoryCache()

		Convey("When computing a value for a fresh key", func() {
			calls := 0
			v, err := cache.GetOrCompute(ctx, "k1", func() (any, error) {
				calls++
				return 42, nil
			})

			Convey("Then the computed value is returned and recorded", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 42)
				So(calls, ShouldEqual, 1)
				So(cache.Size(), ShouldEqual, 1)
			})

			Convey("And a second call serves the cached value", func() {
				v2, err := cache.GetOrCompute(ctx, "k1", func() (any, error) {
					calls++
					return 99, nil
				})
				So(err, ShouldBeNil)
				So(v2, ShouldEqual, 42)
				So(calls, ShouldEqual, 1)
			})
		})

		Convey("When compute fails", func() {
			wantErr := errors.New("source unavailable")
			_, err := cache.GetOrCompute(ctx, "bad", func() (any, error) {
				return nil, wantErr
			})

			Convey("Then nothing is cached and the error surfaces", func() {
				So(err, ShouldEqual, wantErr)
				So(cache.Size(), ShouldEqual, 0)
			})
		})

		Convey("When purging", func() {
			_, _ = cache.GetOrCompute(ctx, "k1", func() (any, error) { return 1, nil })
			_, _ = cache.GetOrCompute(ctx, "k2", func() (any, error) { return 2, nil })
			cache.Purge(ctx)

			Convey("Then the cache is empty", func() {
				So(cache.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryCache_Bounded(t *testing.T) {
	Convey("Given a cache with a small bound", t, func() {
		ctx := context.Background()
		cache := memo.NewInMemoryCache(memo.WithMaxSize(3))

		for i := 0; i < 3; i++ {
			key := fmt.Sprintf("k%d", i)
			_, _ = cache.GetOrCompute(ctx, key, func() (any, error) { return i, nil })
		}

		Convey("When inserting past the bound", func() {
			_, _ = cache.GetOrCompute(ctx, "k3", func() (any, error) { return 3, nil })

			Convey("Then the size never exceeds the bound", func() {
				So(cache.Size(), ShouldEqual, 3)
			})

			Convey("And the oldest entries stay warm", func() {
				calls := 0
				v, _ := cache.GetOrCompute(ctx, "k0", func() (any, error) {
					calls++
					return -1, nil
				})
				So(v, ShouldEqual, 0)
				So(calls, ShouldEqual, 0)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given the key builder", t, func() {
		Convey("Then identical inputs produce identical keys", func() {
			So(memo.Key("combined", "id", "inner"), ShouldEqual, memo.Key("combined", "id", "inner"))
		})

		Convey("And any differing parameter changes the key", func() {
			So(memo.Key("combined", "id", "inner"), ShouldNotEqual, memo.Key("combined", "id", "outer"))
			So(memo.Key("combined", "id", "inner"), ShouldNotEqual, memo.Key("summary", "id", "inner"))
		})
	})
}

func TestTableKey(t *testing.T) {
	Convey("Given two identical tables", t, func() {
		a := table.New("driver", "miles")
		a.AppendRow("Alice Johnson", "10")
		b := table.New("driver", "miles")
		b.AppendRow("Alice Johnson", "10")

		Convey("Then their content keys match", func() {
			So(memo.TableKey(a), ShouldEqual, memo.TableKey(b))
		})

		Convey("When a single cell changes", func() {
			b.Rows[0][1] = "11"

			Convey("Then the keys diverge", func() {
				So(memo.TableKey(a), ShouldNotEqual, memo.TableKey(b))
			})
		})

		Convey("When only the schema changes", func() {
			c := table.New("driver", "km")
			c.AppendRow("Alice Johnson", "10")

			Convey("Then the keys diverge", func() {
				So(memo.TableKey(a), ShouldNotEqual, memo.TableKey(c))
			})
		})
	})
}
