package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Số điện thoại VN: 0xxxxxxxxx hoặc +84xxxxxxxxx
var vnPhoneRegex = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)[0-9]{8}$`)

// Address - địa chỉ đã lưu của user (server-owned)
type Address struct {
	AddressID string `json:"address_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	District  string `json:"district"`
	Ward      string `json:"ward"`
	Street    string `json:"street"`
	IsDefault bool   `json:"is_default"`
	IsNew     bool   `json:"is_new,omitempty"` // địa chỉ nhập tay, chỉ sống trong session
}

// FullAddress ghép street, ward, district, city
func (a *Address) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Ward, a.District, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// NewAddressInput - địa chỉ nhập mới tại trang checkout
type NewAddressInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
	Street   string `json:"street"`
}

func (in NewAddressInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FullName, validation.Required.Error("Vui lòng nhập họ tên"), validation.Length(2, 255)),
		validation.Field(&in.Phone,
			validation.Required.Error("Vui lòng nhập số điện thoại"),
			validation.Match(vnPhoneRegex).Error("Số điện thoại không hợp lệ"),
		),
		validation.Field(&in.City, validation.Required.Error("Vui lòng chọn tỉnh/thành phố"), validation.Length(1, 100)),
		validation.Field(&in.District, validation.Required.Error("Vui lòng chọn quận/huyện"), validation.Length(1, 100)),
		validation.Field(&in.Ward, validation.Required.Error("Vui lòng chọn phường/xã"), validation.Length(1, 100)),
		validation.Field(&in.Street, validation.Required.Error("Vui lòng nhập địa chỉ"), validation.Length(1, 500)),
	)
}

// ToAddress chuyển input sang Address tạm (IsNew=true, không có id)
func (in NewAddressInput) ToAddress() Address {
	return Address{
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		City:     strings.TrimSpace(in.City),
		District: strings.TrimSpace(in.District),
		Ward:     strings.TrimSpace(in.Ward),
		Street:   strings.TrimSpace(in.Street),
		IsNew:    true,
	}
}

// SelectionMode - trạng thái chọn địa chỉ
type SelectionMode string

const (
	SelectionNone  SelectionMode = "none"
	SelectionSaved SelectionMode = "saved"
	SelectionNew   SelectionMode = "new"
)

// Selection - state machine {none, saved, new}
// saved và new loại trừ nhau ở "current", nhưng cả hai vẫn được giữ để hiển thị
type Selection struct {
	Mode           SelectionMode `json:"mode"`
	SavedAddressID string        `json:"saved_address_id,omitempty"`
	NewAddress     *Address      `json:"new_address,omitempty"`
}
