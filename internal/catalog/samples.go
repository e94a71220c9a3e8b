// ABOUTME: Sample products used to seed an empty store and exercise the demo REPL.
// ABOUTME: Five entries spanning the phone, laptop, and accessory categories.

package catalog

import "time"

// Samples returns the demo product set. The store seeds these into an empty
// database so a fresh install has something to sell.
func Samples() []*Product {
	now := time.Now()
	return []*Product{
		{
			ID:          "1",
			Name:        "iPhone 15 Pro",
			Category:    "phone",
			Brand:       "Apple",
			Description: "The latest iPhone with A17 Pro chip, 48MP camera, and titanium design.",
			Price:       999.99,
			Stock:       50,
			Specifications: map[string]string{
				"display":   "6.1-inch Super Retina XDR",
				"processor": "A17 Pro",
				"storage":   "256GB",
				"camera":    "48MP main, 12MP ultra-wide, 12MP telephoto",
				"battery":   "3,274 mAh",
				"os":        "iOS 17",
			},
			ImageURL:  "https://example.com/iphone15pro.jpg",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "2",
			Name:        "Samsung Galaxy S24 Ultra",
			Category:    "phone",
			Brand:       "Samsung",
			Description: "Flagship Android phone with S Pen, 200MP camera, and AI features.",
			Price:       1199.99,
			Stock:       30,
			Specifications: map[string]string{
				"display":   "6.8-inch Dynamic AMOLED 2X",
				"processor": "Snapdragon 8 Gen 3",
				"storage":   "512GB",
				"camera":    "200MP main, 12MP ultra-wide, 10MP telephoto, 10MP periscope",
				"battery":   "5,000 mAh",
				"os":        "Android 14",
			},
			ImageURL:  "https://example.com/s24ultra.jpg",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "3",
			Name:        "MacBook Pro 16\"",
			Category:    "laptop",
			Brand:       "Apple",
			Description: "Powerful laptop with M3 Pro chip, 16-inch display, and long battery life.",
			Price:       2499.99,
			Stock:       20,
			Specifications: map[string]string{
				"display":   "16-inch Liquid Retina XDR",
				"processor": "M3 Pro",
				"memory":    "32GB unified memory",
				"storage":   "1TB SSD",
				"graphics":  "M3 Pro GPU",
				"battery":   "Up to 22 hours",
			},
			ImageURL:  "https://example.com/macbookpro16.jpg",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "4",
			Name:        "Dell XPS 15",
			Category:    "laptop",
			Brand:       "Dell",
			Description: "Premium Windows laptop with InfinityEdge display and powerful performance.",
			Price:       1899.99,
			Stock:       15,
			Specifications: map[string]string{
				"display":   "15.6-inch 4K OLED",
				"processor": "Intel Core i9-13900H",
				"memory":    "32GB DDR5",
				"storage":   "1TB NVMe SSD",
				"graphics":  "NVIDIA RTX 4070",
				"battery":   "Up to 12 hours",
			},
			ImageURL:  "https://example.com/dellxps15.jpg",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "5",
			Name:        "AirPods Pro 2",
			Category:    "accessory",
			Brand:       "Apple",
			Description: "Wireless earbuds with active noise cancellation and spatial audio.",
			Price:       249.99,
			Stock:       100,
			Specifications: map[string]string{
				"type":         "In-ear wireless earbuds",
				"features":     "Active noise cancellation, Transparency mode, Spatial audio",
				"battery":      "Up to 6 hours (30 hours with case)",
				"connectivity": "Bluetooth 5.3",
				"charging":     "USB-C, Wireless",
			},
			ImageURL:  "https://example.com/airpodspro2.jpg",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
