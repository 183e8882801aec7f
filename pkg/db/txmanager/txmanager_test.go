package txmanager

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/smallbiznis/tradeledger/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type counter struct {
	ID    int64 `gorm:"primaryKey"`
	Value int64
}

func setup(t *testing.T) *Manager {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, db.AutoMigrate(&counter{}))
	require.NoError(t, db.Create(&counter{ID: 1}).Error)
	return New(db)
}

func TestWriteSerializesReadModifyWrite(t *testing.T) {
	m := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Write(ctx, func(tx *gorm.DB) error {
				var c counter
				if err := tx.First(&c, 1).Error; err != nil {
					return err
				}
				return tx.Model(&counter{}).Where("id = ?", 1).Update("value", c.Value+1).Error
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var c counter
	require.NoError(t, m.DB().First(&c, 1).Error)
	assert.Equal(t, int64(20), c.Value)
}

func TestWriteRollsBackOnError(t *testing.T) {
	m := setup(t)
	boom := errors.New("boom")

	err := m.Write(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Model(&counter{}).Where("id = ?", 1).Update("value", 99).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var c counter
	require.NoError(t, m.DB().First(&c, 1).Error)
	assert.Equal(t, int64(0), c.Value)
}

func TestWriteRejectsCanceledContextBeforeBegin(t *testing.T) {
	m := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.Write(ctx, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestReadSeesCommittedState(t *testing.T) {
	m := setup(t)
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, func(tx *gorm.DB) error {
		return tx.Model(&counter{}).Where("id = ?", 1).Update("value", 7).Error
	}))

	var got counter
	require.NoError(t, m.Read(ctx, func(tx *gorm.DB) error {
		return tx.First(&got, 1).Error
	}))
	assert.Equal(t, int64(7), got.Value)
}
