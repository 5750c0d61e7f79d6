package service

import (
	"storefront-checkout/internal/domains/address"
	"storefront-checkout/internal/domains/address/model"
)

// Resolver quản lý việc chọn giữa địa chỉ đã lưu và địa chỉ nhập mới.
// Mọi method trả về Selection mới, không sửa Selection đầu vào.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// DefaultSelection chọn sẵn địa chỉ mặc định khi bắt đầu session.
// Nếu upstream trả nhiều default thì lấy cái đầu tiên.
func (r *Resolver) DefaultSelection(saved []model.Address) model.Selection {
	for _, a := range saved {
		if a.IsDefault {
			return model.Selection{Mode: model.SelectionSaved, SavedAddressID: a.AddressID}
		}
	}
	return model.Selection{Mode: model.SelectionNone}
}

// SelectSaved chọn một địa chỉ trong danh sách đã lưu, giữ nguyên địa chỉ mới đã nhập (nếu có)
func (r *Resolver) SelectSaved(sel model.Selection, addressID string, saved []model.Address) (model.Selection, error) {
	if findSaved(saved, addressID) == nil {
		return sel, address.NewAddressNotFound(addressID)
	}

	next := sel
	next.Mode = model.SelectionSaved
	next.SavedAddressID = addressID
	return next, nil
}

// EnterNew validate rồi đặt địa chỉ nhập tay làm current, giữ lựa chọn saved để hiển thị
func (r *Resolver) EnterNew(sel model.Selection, input model.NewAddressInput) (model.Selection, error) {
	if err := input.Validate(); err != nil {
		return sel, address.NewInvalidAddress(err)
	}

	addr := input.ToAddress()
	next := sel
	next.Mode = model.SelectionNew
	next.NewAddress = &addr
	return next, nil
}

// Resolve trả về địa chỉ current; ErrAddressRequired nếu chưa có
func (r *Resolver) Resolve(sel model.Selection, saved []model.Address) (*model.Address, error) {
	switch sel.Mode {
	case model.SelectionSaved:
		if a := findSaved(saved, sel.SavedAddressID); a != nil {
			cp := *a
			return &cp, nil
		}
	case model.SelectionNew:
		if sel.NewAddress != nil {
			cp := *sel.NewAddress
			return &cp, nil
		}
	}
	return nil, address.ErrAddressRequired
}

func findSaved(saved []model.Address, id string) *model.Address {
	if id == "" {
		return nil
	}
	for i := range saved {
		if saved[i].AddressID == id {
			return &saved[i]
		}
	}
	return nil
}
