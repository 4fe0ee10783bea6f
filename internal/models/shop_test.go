package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShopDecodeCurrentFields(t *testing.T) {
	raw := `{
		"id": "shop-1",
		"name": "Campus Prints",
		"costPerPageMono": 1.5,
		"costPerPageColor": 5,
		"isAcceptingUploads": true
	}`

	var shop Shop
	require.NoError(t, json.Unmarshal([]byte(raw), &shop))

	require.Equal(t, "shop-1", shop.ID)
	require.Equal(t, "Campus Prints", shop.Name)
	require.Equal(t, 1.5, shop.CostPerPageMono)
	require.Equal(t, 5.0, shop.CostPerPageColor)
	require.True(t, shop.AcceptingUploads)
}

func TestShopDecodeLegacyFields(t *testing.T) {
	raw := `{
		"_id": "65fa02",
		"shopName": "Old Town Copy",
		"costPerPageBW": 2,
		"cost_per_page_color": 6,
		"acceptingUploads": false
	}`

	var shop Shop
	require.NoError(t, json.Unmarshal([]byte(raw), &shop))

	require.Equal(t, "65fa02", shop.ID)
	require.Equal(t, "Old Town Copy", shop.Name)
	require.Equal(t, 2.0, shop.CostPerPageMono)
	require.Equal(t, 6.0, shop.CostPerPageColor)
	require.False(t, shop.AcceptingUploads)
}
