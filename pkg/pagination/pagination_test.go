package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlessingGianna7/rest-pms-system/pkg/db/dbtest"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db/models"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Params{}.Normalize()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = Params{Page: -3, Limit: 5000, Search: "  car "}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, "car", p.Search)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{}.Offset())
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())
}

func TestNewMeta(t *testing.T) {
	cases := []struct {
		total int64
		p     Params
		want  Meta
	}{
		{0, Params{}, Meta{TotalItems: 0, CurrentPage: 1, TotalPages: 0, Limit: 10}},
		{10, Params{}, Meta{TotalItems: 10, CurrentPage: 1, TotalPages: 1, Limit: 10}},
		{11, Params{Page: 2}, Meta{TotalItems: 11, CurrentPage: 2, TotalPages: 2, Limit: 10}},
		{7, Params{Limit: 3}, Meta{TotalItems: 7, CurrentPage: 1, TotalPages: 3, Limit: 3}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewMeta(tc.total, tc.p))
	}
}

func TestSearchID(t *testing.T) {
	id, ok := Params{Search: " 42 "}.SearchID()
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	_, ok = Params{Search: "ab12"}.SearchID()
	assert.False(t, ok)
	_, ok = Params{Search: "-1"}.SearchID()
	assert.False(t, ok)
}

func TestSearchAndPaginateScopes(t *testing.T) {
	conn := dbtest.Open(t)
	seed := []models.ParkingSlot{
		{SlotNumber: 1, VehicleType: "Car", Status: enums.SlotStatusFree},
		{SlotNumber: 2, VehicleType: "truck", Status: enums.SlotStatusFree},
		{SlotNumber: 3, VehicleType: "CARAVAN", Status: enums.SlotStatusFree},
		{SlotNumber: 4, VehicleType: "bike", Status: enums.SlotStatusFree},
	}
	require.NoError(t, conn.Create(&seed).Error)

	var got []models.ParkingSlot
	p := Params{Search: "car"}
	require.NoError(t, conn.Scopes(Search(p, []string{"vehicle_type"}, "slot_number")).Order("id").Find(&got).Error)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].SlotNumber)
	assert.Equal(t, 3, got[1].SlotNumber)

	got = nil
	p = Params{Search: "4"}
	require.NoError(t, conn.Scopes(Search(p, []string{"vehicle_type"}, "slot_number")).Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "bike", got[0].VehicleType)

	got = nil
	p = Params{Page: 2, Limit: 3}
	require.NoError(t, conn.Scopes(Paginate(p)).Order("id").Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].SlotNumber)
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	conn := dbtest.Open(t)
	seed := []models.ParkingSlot{
		{SlotNumber: 1, VehicleType: "car", Status: enums.SlotStatusFree},
		{SlotNumber: 2, VehicleType: "ev_van", Status: enums.SlotStatusFree},
		{SlotNumber: 3, VehicleType: "100%electric", Status: enums.SlotStatusFree},
	}
	require.NoError(t, conn.Create(&seed).Error)

	for term, want := range map[string]int{"_": 2, "%": 3, `\`: 0} {
		var got []models.ParkingSlot
		require.NoError(t, conn.Scopes(Search(Params{Search: term}, []string{"vehicle_type"}, "")).Find(&got).Error)
		if want == 0 {
			assert.Empty(t, got, "term %q", term)
			continue
		}
		require.Len(t, got, 1, "term %q", term)
		assert.Equal(t, want, got[0].SlotNumber)
	}
}
