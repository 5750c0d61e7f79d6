package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/address"
	"storefront-checkout/internal/domains/address/model"
)

func savedAddresses() []model.Address {
	return []model.Address{
		{AddressID: "a1", FullName: "Nguyễn Văn A", Phone: "0912345678", City: "Hà Nội", District: "Ba Đình", Ward: "Kim Mã", Street: "12 Kim Mã"},
		{AddressID: "a2", FullName: "Nguyễn Văn A", Phone: "0912345678", City: "Hà Nội", District: "Cầu Giấy", Ward: "Dịch Vọng", Street: "5 Xuân Thủy", IsDefault: true},
		{AddressID: "a3", FullName: "Trần Thị B", Phone: "0987654321", City: "TP HCM", District: "Quận 1", Ward: "Bến Nghé", Street: "1 Lê Lợi", IsDefault: true},
	}
}

func validInput() model.NewAddressInput {
	return model.NewAddressInput{
		FullName: "Lê Văn C",
		Phone:    "+84901234567",
		City:     "Đà Nẵng",
		District: "Hải Châu",
		Ward:     "Thạch Thang",
		Street:   " 20 Bạch Đằng ",
	}
}

func TestDefaultSelection(t *testing.T) {
	r := NewResolver()

	sel := r.DefaultSelection(savedAddresses())
	assert.Equal(t, model.SelectionSaved, sel.Mode)
	assert.Equal(t, "a2", sel.SavedAddressID, "first default wins")

	sel = r.DefaultSelection([]model.Address{{AddressID: "x"}})
	assert.Equal(t, model.SelectionNone, sel.Mode)
}

func TestResolve_NoAddress(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve(model.Selection{Mode: model.SelectionNone}, savedAddresses())
	require.Error(t, err)
	assert.True(t, address.IsAddressRequired(err))

	// saved id không còn trong danh sách
	_, err = r.Resolve(model.Selection{Mode: model.SelectionSaved, SavedAddressID: "gone"}, savedAddresses())
	assert.True(t, address.IsAddressRequired(err))
}

func TestSelectSaved(t *testing.T) {
	r := NewResolver()
	start := model.Selection{Mode: model.SelectionNone}

	sel, err := r.SelectSaved(start, "a1", savedAddresses())
	require.NoError(t, err)
	assert.Equal(t, model.SelectionNone, start.Mode, "input selection untouched")

	got, err := r.Resolve(sel, savedAddresses())
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AddressID)
	assert.False(t, got.IsNew)

	_, err = r.SelectSaved(sel, "missing", savedAddresses())
	assert.True(t, address.IsAddressNotFound(err))
}

func TestEnterNew_KeepsSavedVisible(t *testing.T) {
	r := NewResolver()

	sel, err := r.SelectSaved(model.Selection{}, "a1", savedAddresses())
	require.NoError(t, err)

	sel, err = r.EnterNew(sel, validInput())
	require.NoError(t, err)
	assert.Equal(t, model.SelectionNew, sel.Mode)
	assert.Equal(t, "a1", sel.SavedAddressID)

	got, err := r.Resolve(sel, savedAddresses())
	require.NoError(t, err)
	assert.True(t, got.IsNew)
	assert.Equal(t, "20 Bạch Đằng", got.Street)
	assert.Equal(t, "20 Bạch Đằng, Thạch Thang, Hải Châu, Đà Nẵng", got.FullAddress())

	// chọn lại saved, địa chỉ mới vẫn còn
	sel, err = r.SelectSaved(sel, "a3", savedAddresses())
	require.NoError(t, err)
	require.NotNil(t, sel.NewAddress)
	got, err = r.Resolve(sel, savedAddresses())
	require.NoError(t, err)
	assert.Equal(t, "a3", got.AddressID)
}

func TestEnterNew_Invalid(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name   string
		mutate func(in *model.NewAddressInput)
	}{
		{"missing name", func(in *model.NewAddressInput) { in.FullName = "" }},
		{"bad phone", func(in *model.NewAddressInput) { in.Phone = "12345" }},
		{"missing city", func(in *model.NewAddressInput) { in.City = "" }},
		{"missing ward", func(in *model.NewAddressInput) { in.Ward = "" }},
		{"missing street", func(in *model.NewAddressInput) { in.Street = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			before := model.Selection{Mode: model.SelectionSaved, SavedAddressID: "a1"}
			sel, err := r.EnterNew(before, in)
			require.Error(t, err)
			assert.Equal(t, before, sel)

			status, code, _ := address.MapErrorToHTTP(err)
			assert.Equal(t, 400, status)
			assert.Equal(t, address.CodeInvalidAddress, code)
		})
	}
}
