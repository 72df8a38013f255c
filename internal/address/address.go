package address

// Address is a saved delivery destination. Location is the short location
// code ("HK", "D") that feeds delivery-charge eligibility and the currency
// fallback when an order ships to this address.
type Address struct {
	AddressID   int    `json:"addressId"`
	UserID      int    `json:"userId"`
	AddressDesc string `json:"addressDesc"`
	Phone       string `json:"phone"`
	AddressName string `json:"addressName"`
	Location    string `json:"location,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
