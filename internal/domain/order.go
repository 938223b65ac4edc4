package domain

import "time"

// Order is one user's selection against one daily menu
type Order struct {
	ID            string         `json:"_id"`
	User          Ref[User]      `json:"userId"`
	DailyMenu     Ref[DailyMenu] `json:"dailyMenuId"`
	UserPackageID string         `json:"userPackageId"`
	OrderType     PackageType    `json:"orderType,omitempty"`
	IsConfirmed   bool           `json:"isConfirmed"`
	OrderedAt     time.Time      `json:"orderedAt"`
	OrderItems    []OrderItem    `json:"orderItems,omitempty"`
	CreatedAt     *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`
}

// OrderItem is one dish of an order with the customer's note
type OrderItem struct {
	ID       string        `json:"_id"`
	OrderID  string        `json:"orderId"`
	MenuItem Ref[MenuItem] `json:"menuItemId"`
	Quantity int           `json:"quantity"`
	Note     string        `json:"note,omitempty"`
}

// ItemName returns the dish name when the menu item was populated
func (i OrderItem) ItemName() string {
	if i.MenuItem.Value != nil {
		return i.MenuItem.Value.Name
	}
	return i.MenuItem.ID
}

// OrderLine is one (menu item, note) pair of an order submission
type OrderLine struct {
	MenuItemID string `json:"menuItemId"`
	Note       string `json:"note,omitempty"`
}

// CreateOrderRequest is the atomic order submission posted to /orders
type CreateOrderRequest struct {
	Items     []OrderLine `json:"items"`
	OrderType PackageType `json:"orderType"`
}

// ItemCount is a dish name with how many times it was ordered
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayOrders is the admin view of all orders placed against a day's menu
type DayOrders struct {
	Menu    *DailyMenu  `json:"menu"`
	Orders  []Order     `json:"orders"`
	Summary []ItemCount `json:"summary"`
}

// ConfirmResult reports how many orders an admin confirmed at once
type ConfirmResult struct {
	ConfirmedCount int `json:"confirmedCount"`
}

// CopyText is the kitchen-ready order list of a menu
type CopyText struct {
	CopyText string      `json:"copyText"`
	Summary  []ItemCount `json:"summary"`
}
