package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStatusTerminal(t *testing.T) {
	assert.True(t, TransferReceived.Terminal())
	assert.True(t, TransferCancelled.Terminal())

	for _, s := range []TransferStatus{
		TransferDraft, TransferSubmitted, TransferApproved,
		TransferSent, TransferPartiallyReceived,
	} {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestTransferTypeEndpoints(t *testing.T) {
	src, dst := TransferRestock.AllowedEndpoints()
	assert.Equal(t, LocationWarehouse, src)
	assert.Equal(t, LocationStore, dst)

	src, dst = TransferReturn.AllowedEndpoints()
	assert.Equal(t, LocationStore, src)
	assert.Equal(t, LocationWarehouse, dst)

	src, dst = TransferRedistribute.AllowedEndpoints()
	assert.Equal(t, LocationWarehouse, src)
	assert.Equal(t, LocationWarehouse, dst)
}

func TestItemConditionBucket(t *testing.T) {
	assert.Equal(t, BucketAvailable, ConditionGood.Bucket())
	assert.Equal(t, BucketDamaged, ConditionDamaged.Bucket())
	assert.Equal(t, BucketExpired, ConditionExpired.Bucket())

	assert.False(t, ItemCondition("BROKEN").Valid())
}

func TestTransferItemOutstanding(t *testing.T) {
	item := TransferItem{ShippedQuantity: 10, ReceivedQuantity: 6}
	assert.Equal(t, int64(4), item.Outstanding())
}

func TestStockBucketValid(t *testing.T) {
	for _, b := range []StockBucket{
		BucketAvailable, BucketReserved, BucketInTransit,
		BucketDamaged, BucketExpired, BucketQuarantined,
	} {
		assert.True(t, b.Valid(), string(b))
	}
	assert.False(t, StockBucket("MISPLACED").Valid())
}
