package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizedByCategory(t *testing.T) {
	tee := &Product{Category: CategoryTshirt}
	assert.True(t, tee.Sized())

	for _, category := range []string{CategoryHat, CategoryCD, CategoryOther} {
		p := &Product{Category: category}
		assert.False(t, p.Sized(), category)
	}
}

func TestNormalizeSize(t *testing.T) {
	tee := &Product{Category: CategoryTshirt}
	assert.Equal(t, SizeMedium, tee.NormalizeSize(SizeMedium))
	assert.Equal(t, "xxl", tee.NormalizeSize("xxl"))

	cd := &Product{Category: CategoryCD}
	assert.Equal(t, SizeOne, cd.NormalizeSize(SizeMedium))
	assert.Equal(t, SizeOne, cd.NormalizeSize(""))
}

func TestStockBuckets(t *testing.T) {
	p := &Product{OneSizeStock: 1, SmallStock: 2, MediumStock: 3, LargeStock: 4}

	assert.Equal(t, 1, p.StockFor(SizeOne))
	assert.Equal(t, 2, p.StockFor(SizeSmall))
	assert.Equal(t, 3, p.StockFor(SizeMedium))
	assert.Equal(t, 4, p.StockFor(SizeLarge))

	p.SetStock(SizeLarge, 9)
	assert.Equal(t, 9, p.LargeStock)
	p.SetStock(SizeOne, 7)
	assert.Equal(t, 7, p.OneSizeStock)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryTshirt))
	assert.True(t, ValidCategory(CategoryOther))
	assert.False(t, ValidCategory("sofa"))
	assert.False(t, ValidCategory(""))
}

func TestValidApparelSize(t *testing.T) {
	assert.True(t, ValidApparelSize(SizeSmall))
	assert.False(t, ValidApparelSize(SizeOne))
	assert.False(t, ValidApparelSize("xxl"))
}
