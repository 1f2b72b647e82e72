package credit

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/schooney/backend-portal/internal/lock"
)

func TestGrantRejectsNonPositiveAmount(t *testing.T) {
	svc := &Service{}
	_, err := svc.Grant(context.Background(), "3f7d3b9e-0c62-4c4d-9f07-0a2e1f7b1234", 0, "refund")
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Grant(context.Background(), "3f7d3b9e-0c62-4c4d-9f07-0a2e1f7b1234", -500, "refund")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSpendRejectsNonPositiveAmount(t *testing.T) {
	svc := &Service{}
	_, err := svc.Spend(context.Background(), nil, "3f7d3b9e-0c62-4c4d-9f07-0a2e1f7b1234", 0, pgtype.UUID{}, "")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBalanceRejectsBadGuardianID(t *testing.T) {
	svc := &Service{}
	_, err := svc.Balance(context.Background(), "not-a-uuid")
	require.Error(t, err)
}

func TestWithGuardianLockSerialises(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := &Service{
		Locker:  lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond},
		LockTTL: time.Second,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var mu sync.Mutex
	var inFlight, maxInFlight int
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.WithGuardianLock(ctx, "guardian-1", func(context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxInFlight, "concurrent holders observed under the guardian lock")
}

func TestWithGuardianLockFallsThroughWithoutRedis(t *testing.T) {
	svc := &Service{}
	called := false
	err := svc.WithGuardianLock(context.Background(), "guardian-1", func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
}
