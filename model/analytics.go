package model

import "time"

// Viewport classes recognized by the listing pipeline.
const (
	ViewportDesktop = "desktop"
	ViewportMobile  = "mobile"
)

// ListingEvent represents a single served product listing for analytics
// tracking.
type ListingEvent struct {
	ID           string        `json:"id"`
	Site         string        `json:"site"`
	Query        string        `json:"query"`
	CategoryID   string        `json:"category_id"`
	Viewport     string        `json:"viewport"` // "desktop" or "mobile"
	ResultCount  int           `json:"result_count"`
	SlotCount    int           `json:"slot_count"`
	ResponseTime time.Duration `json:"response_time"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularQuery represents aggregated data for frequently issued queries
type PopularQuery struct {
	Query        string `json:"query"`
	ListingCount int    `json:"listing_count"`
}

// CategoryUsage represents listing traffic for a single category
type CategoryUsage struct {
	CategoryID   string `json:"category_id"`
	ListingCount int    `json:"listing_count"`
}

// ViewportSplit represents the desktop/mobile traffic split
type ViewportSplit struct {
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// AnalyticsDashboard represents the complete listing analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics
	TotalListings         int     `json:"total_listings"`
	ListingsChangePercent float64 `json:"listings_change_percent"`
	AvgResponseTime       int64   `json:"avg_response_time"` // in milliseconds
	ResponseTimeChange    string  `json:"response_time_change"`

	// Detailed analytics
	PopularQueries           []PopularQuery           `json:"popular_queries"`
	ZeroResultQueries        []PopularQuery           `json:"zero_result_queries"`
	TopCategories            []CategoryUsage          `json:"top_categories"`
	Viewports                ViewportSplit            `json:"viewports"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
}
