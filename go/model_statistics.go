package storeserver

// Statistics is the admin dashboard rollup.
type Statistics struct {
	Products         ProductStats      `json:"products"`
	Categories       CategoryStats     `json:"categories"`
	Users            UserStats         `json:"users"`
	Orders           OrderStats        `json:"orders"`
	RecentOrders     []RecentOrder     `json:"recent_orders"`
	LowStockProducts []LowStockProduct `json:"low_stock_products"`
	TopProducts      []TopProduct      `json:"top_products"`
}

type ProductStats struct {
	TotalProducts int64 `json:"total_products"`
	TotalStock    int64 `json:"total_stock"`
}

type CategoryStats struct {
	TotalCategories int64 `json:"total_categories"`
}

type UserStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalCustomers int64 `json:"total_customers"`
	TotalAdmins    int64 `json:"total_admins"`
}

type OrderStats struct {
	TotalOrders      int64  `json:"total_orders"`
	TotalRevenue     string `json:"total_revenue"`
	AvgOrderValue    string `json:"avg_order_value"`
	PendingOrders    int64  `json:"pending_orders"`
	ProcessingOrders int64  `json:"processing_orders"`
	ShippedOrders    int64  `json:"shipped_orders"`
	DeliveredOrders  int64  `json:"delivered_orders"`
	CancelledOrders  int64  `json:"cancelled_orders"`
}

type RecentOrder struct {
	OrderId      int64  `json:"order_id"`
	OrderDate    string `json:"order_date"`
	TotalAmount  string `json:"total_amount"`
	Status       string `json:"status"`
	Username     string `json:"username"`
	CustomerName string `json:"customer_name"`
}

type LowStockProduct struct {
	ProductId   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int64  `json:"stock"`
}

type TopProduct struct {
	ProductId    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ImageUrl     string `json:"image_url"`
	TotalSold    int64  `json:"total_sold"`
	TotalRevenue string `json:"total_revenue"`
}
