package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationResult(t *testing.T) {
	properties := []Property{
		{Name: "静安公寓1号"},
		{Name: "静安公寓2号"},
	}

	result := NewPaginationResult(properties, int64(12), 2, 2)

	assert.Equal(t, int64(12), result.Total)
	assert.Equal(t, 2, result.PageNum)
	assert.Equal(t, 2, result.PageSize)

	// 列表数据必须随分页元信息一起返回
	items, ok := result.Items.([]Property)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "静安公寓1号", items[0].Name)
}
