package domain

// DashboardStats are the admin landing page counters
type DashboardStats struct {
	TodayOrders             int         `json:"todayOrders"`
	PendingPurchaseRequests int         `json:"pendingPurchaseRequests"`
	MonthlyRevenue          int64       `json:"monthlyRevenue"`
	TodayMenuExists         bool        `json:"todayMenuExists"`
	TodayMenuLocked         bool        `json:"todayMenuLocked"`
	TotalUsers              int         `json:"totalUsers,omitempty"`
	ActivePackages          int         `json:"activePackages,omitempty"`
	TodayMenus              int         `json:"todayMenus,omitempty"`
	TopItems                []ItemCount `json:"topItems,omitempty"`
}

// RevenueLine is revenue attributed to one meal package
type RevenueLine struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// RevenueStats is revenue over a period
type RevenueStats struct {
	Period            string        `json:"period"`
	StartDate         string        `json:"startDate"`
	EndDate           string        `json:"endDate"`
	TotalRevenue      int64         `json:"totalRevenue"`
	TotalTransactions int           `json:"totalTransactions"`
	Breakdown         []RevenueLine `json:"breakdown"`
}

// RevenueQuery selects the revenue period
type RevenueQuery struct {
	Period string
	Date   string
}

// MenuItemStats is the dish popularity report
type MenuItemStats struct {
	Items []ItemCount `json:"items"`
}
