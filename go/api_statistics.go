package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mediadomain "github.com/Apurer/storefront-api/internal/domains/media/domain"
	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	statsdomain "github.com/Apurer/storefront-api/internal/domains/statistics/domain"
	statsports "github.com/Apurer/storefront-api/internal/domains/statistics/ports"
)

// StatisticsAPI serves the admin dashboard rollup.
type StatisticsAPI struct {
	service statsports.Service
	images  mediadomain.URLResolver
}

// NewStatisticsAPI wires dependencies.
func NewStatisticsAPI(service statsports.Service, images mediadomain.URLResolver) StatisticsAPI {
	return StatisticsAPI{service: service, images: images}
}

// Get /admin/statistics
// Aggregate store statistics
func (api *StatisticsAPI) GetStatistics(c *gin.Context) {
	report, err := api.service.Report(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.toStatistics(report))
}

func (api *StatisticsAPI) toStatistics(r *statsdomain.Report) Statistics {
	byStatus := r.Orders.ByStatus
	out := Statistics{
		Products: ProductStats{
			TotalProducts: r.Products.TotalProducts,
			TotalStock:    r.Products.TotalStock,
		},
		Categories: CategoryStats{TotalCategories: r.TotalCategories},
		Users: UserStats{
			TotalUsers:     r.Users.TotalUsers,
			TotalCustomers: r.Users.TotalCustomers,
			TotalAdmins:    r.Users.TotalAdmins,
		},
		Orders: OrderStats{
			TotalOrders:      r.Orders.TotalOrders,
			TotalRevenue:     money(r.Orders.TotalRevenue),
			AvgOrderValue:    money(r.Orders.AvgOrderValue),
			PendingOrders:    byStatus[orderdomain.StatusPending],
			ProcessingOrders: byStatus[orderdomain.StatusProcessing],
			ShippedOrders:    byStatus[orderdomain.StatusShipped],
			DeliveredOrders:  byStatus[orderdomain.StatusDelivered],
			CancelledOrders:  byStatus[orderdomain.StatusCancelled],
		},
		RecentOrders:     make([]RecentOrder, 0, len(r.RecentOrders)),
		LowStockProducts: make([]LowStockProduct, 0, len(r.LowStockProducts)),
		TopProducts:      make([]TopProduct, 0, len(r.TopProducts)),
	}
	for _, o := range r.RecentOrders {
		out.RecentOrders = append(out.RecentOrders, RecentOrder{
			OrderId:      o.OrderID,
			OrderDate:    timestamp(o.OrderDate),
			TotalAmount:  money(o.TotalAmount),
			Status:       string(o.Status),
			Username:     o.Username,
			CustomerName: o.CustomerName,
		})
	}
	for _, p := range r.LowStockProducts {
		out.LowStockProducts = append(out.LowStockProducts, LowStockProduct{
			ProductId:   p.ProductID,
			ProductName: p.ProductName,
			Stock:       p.Stock,
		})
	}
	for _, p := range r.TopProducts {
		out.TopProducts = append(out.TopProducts, TopProduct{
			ProductId:    p.ProductID,
			ProductName:  p.ProductName,
			ImageUrl:     api.images.Resolve(p.ImageRef),
			TotalSold:    p.TotalSold,
			TotalRevenue: money(p.TotalRevenue),
		})
	}
	return out
}
